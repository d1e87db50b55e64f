package keychain

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/pribylovaa/shopping-assistant/internal/mocks"
)

// Тесты на OSBackend подменяют провайдер go-keyring на in-memory
// (keyring.MockInit), поэтому НЕ используют t.Parallel().

func newOSStore(t *testing.T) *TokenStore {
	t.Helper()
	keyring.MockInit()
	return NewTokenStore(OSBackend{}, "", "")
}

func TestTokenStore_StoreThenRetrieve(t *testing.T) {
	s := newOSStore(t)
	ctx := context.Background()

	require.NoError(t, s.Store(ctx, "token-1"))

	got, ok, err := s.Retrieve(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "token-1", got)

	// перезапись
	require.NoError(t, s.Store(ctx, "token-2"))
	got, ok, err = s.Retrieve(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "token-2", got)
}

func TestTokenStore_ClearThenRetrieve_Absent(t *testing.T) {
	s := newOSStore(t)
	ctx := context.Background()

	require.NoError(t, s.Store(ctx, "token"))
	require.NoError(t, s.Clear(ctx))

	got, ok, err := s.Retrieve(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, got)
}

func TestTokenStore_Retrieve_NeverStored(t *testing.T) {
	s := newOSStore(t)

	_, ok, err := s.Retrieve(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTokenStore_Clear_Idempotent(t *testing.T) {
	s := newOSStore(t)
	ctx := context.Background()

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
}

func TestTokenStore_OSBackendUnavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("secret service unavailable"))
	t.Cleanup(keyring.MockInit)

	s := NewTokenStore(OSBackend{}, "", "")
	ctx := context.Background()

	err := s.Store(ctx, "token")
	require.ErrorIs(t, err, ErrCredentialStore)

	_, ok, err := s.Retrieve(ctx)
	require.ErrorIs(t, err, ErrCredentialStore)
	require.False(t, ok)

	require.ErrorIs(t, s.Clear(ctx), ErrCredentialStore)
}

func TestNewTokenStore_Namespace(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	b := mocks.NewMockBackend(ctrl)

	b.EXPECT().Get("custom-app", "custom-account").Return("tok", nil)

	s := NewTokenStore(b, "custom-app", "custom-account")
	got, ok, err := s.Retrieve(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok", got)
}

func TestTokenStore_BackendErrors(t *testing.T) {
	t.Parallel()

	denied := errors.New("permission denied")

	tcs := []struct {
		name   string
		expect func(b *mocks.MockBackend)
		call   func(s *TokenStore) error
		wantOp string
	}{
		{
			name: "store",
			expect: func(b *mocks.MockBackend) {
				b.EXPECT().Set(DefaultService, DefaultAccount, "tok").Return(denied)
			},
			call:   func(s *TokenStore) error { return s.Store(context.Background(), "tok") },
			wantOp: "write",
		},
		{
			name: "retrieve",
			expect: func(b *mocks.MockBackend) {
				b.EXPECT().Get(DefaultService, DefaultAccount).Return("", denied)
			},
			call: func(s *TokenStore) error {
				_, _, err := s.Retrieve(context.Background())
				return err
			},
			wantOp: "read",
		},
		{
			name: "clear",
			expect: func(b *mocks.MockBackend) {
				b.EXPECT().Delete(DefaultService, DefaultAccount).Return(denied)
			},
			call:   func(s *TokenStore) error { return s.Clear(context.Background()) },
			wantOp: "delete",
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			b := mocks.NewMockBackend(ctrl)
			tc.expect(b)

			err := tc.call(NewTokenStore(b, "", ""))
			require.ErrorIs(t, err, ErrCredentialStore)
			require.ErrorIs(t, err, denied)

			var se *StoreError
			require.ErrorAs(t, err, &se)
			require.Equal(t, tc.wantOp, se.Op)
			require.Contains(t, err.Error(), "permission denied")
		})
	}
}

func TestTokenStore_Clear_NotFoundFromBackend_IsSuccess(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	b := mocks.NewMockBackend(ctrl)
	b.EXPECT().Delete(DefaultService, DefaultAccount).Return(ErrNotFound)

	require.NoError(t, NewTokenStore(b, "", "").Clear(context.Background()))
}
