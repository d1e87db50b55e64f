package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField — в ответе сервера нет обязательного поля (или оно null).
var ErrMissingField = errors.New("missing required field")

// requireFields проверяет, что data — JSON-объект, в котором есть все names
// со значением не null. Пустая строка или 0 считаются заданным значением.
func requireFields(data []byte, names ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("%w: object expected", ErrMissingField)
	}

	for _, name := range names {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	return nil
}

func (u *User) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "id", "email", "role", "plan"); err != nil {
		return fmt.Errorf("user: %w", err)
	}

	type plain User
	return json.Unmarshal(data, (*plain)(u))
}

func (r *LoginResponse) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "accessToken", "refreshToken", "expiresIn", "user"); err != nil {
		return fmt.Errorf("login response: %w", err)
	}

	type plain LoginResponse
	return json.Unmarshal(data, (*plain)(r))
}

func (s *Subscription) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "plan", "status"); err != nil {
		return fmt.Errorf("subscription: %w", err)
	}

	type plain Subscription
	return json.Unmarshal(data, (*plain)(s))
}

func (r *VerifyResponse) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "valid", "user", "subscription"); err != nil {
		return fmt.Errorf("verify response: %w", err)
	}

	type plain VerifyResponse
	return json.Unmarshal(data, (*plain)(r))
}

func (w *Watcher) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "id", "name", "url", "status"); err != nil {
		return fmt.Errorf("watcher: %w", err)
	}

	type plain Watcher
	return json.Unmarshal(data, (*plain)(w))
}

// UnmarshalJSON требует поле items; пустой массив допустим.
func (r *WatchersResponse) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "items"); err != nil {
		return fmt.Errorf("watchers response: %w", err)
	}

	type plain WatchersResponse
	return json.Unmarshal(data, (*plain)(r))
}
