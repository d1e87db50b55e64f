//go:generate mockgen -source=keychain.go -destination=../mocks/mock_backend.go -package=mocks

// keychain хранит access-токен в защищённом хранилище ОС.
//
// Особенности:
//   - один секрет, адресуемый парой service/account;
//   - нет кэша в памяти: каждый вызов идёт в хранилище;
//   - отсутствие секрета — не ошибка (Retrieve возвращает ok=false,
//     Clear считает это успехом).
package keychain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/shopping-assistant/internal/pkg/log"
)

const (
	// DefaultService — пространство имён приложения в хранилище ОС.
	DefaultService = "shopping-assistant"
	// DefaultAccount — ключ, под которым лежит access-токен.
	DefaultAccount = "access_token"
)

var (
	// ErrNotFound — секрет в бэкенде отсутствует. Наружу из TokenStore не выходит.
	ErrNotFound = errors.New("secret not found")

	// ErrCredentialStore — хранилище ОС недоступно или отклонило операцию.
	ErrCredentialStore = errors.New("credential store error")
)

// Backend — минимальный контракт хранилища секретов конкретной платформы.
type Backend interface {
	// Set создаёт или перезаписывает секрет.
	Set(service, account, secret string) error
	// Get возвращает секрет или ErrNotFound.
	Get(service, account string) (string, error)
	// Delete удаляет секрет или возвращает ErrNotFound.
	Delete(service, account string) error
}

// StoreError — ошибка хранилища с указанием операции.
// errors.Is(err, ErrCredentialStore) == true.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("credential store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrCredentialStore }

// TokenStore — адаптер над Backend для единственного секрета.
type TokenStore struct {
	backend Backend
	service string
	account string
}

// NewTokenStore создаёт адаптер; пустые service/account заменяются дефолтами.
func NewTokenStore(backend Backend, service, account string) *TokenStore {
	if service == "" {
		service = DefaultService
	}
	if account == "" {
		account = DefaultAccount
	}

	return &TokenStore{backend: backend, service: service, account: account}
}

// Store записывает (перезаписывает) токен.
func (s *TokenStore) Store(ctx context.Context, token string) error {
	if err := s.backend.Set(s.service, s.account, token); err != nil {
		s.logFailure(ctx, "write", err)
		return &StoreError{Op: "write", Err: err}
	}

	return nil
}

// Retrieve возвращает токен; ok == false, если токена нет.
func (s *TokenStore) Retrieve(ctx context.Context) (string, bool, error) {
	token, err := s.backend.Get(s.service, s.account)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}

		s.logFailure(ctx, "read", err)
		return "", false, &StoreError{Op: "read", Err: err}
	}

	return token, true, nil
}

// Clear удаляет токен. Повторное удаление — успех.
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(s.service, s.account); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}

		s.logFailure(ctx, "delete", err)
		return &StoreError{Op: "delete", Err: err}
	}

	return nil
}

func (s *TokenStore) logFailure(ctx context.Context, op string, err error) {
	log.From(ctx).Warn("keychain_failed",
		slog.String("op", op),
		slog.String("service", s.service),
		slog.String("err", err.Error()),
	)
}
