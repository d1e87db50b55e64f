package keychain

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// OSBackend — хранилище ОС через go-keyring
// (macOS Keychain, Windows Credential Manager, Secret Service на Linux).
type OSBackend struct{}

func (OSBackend) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

func (OSBackend) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}

	return secret, err
}

func (OSBackend) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}

	return err
}
