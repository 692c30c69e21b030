package sidle

import (
	"fmt"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const keyringService = "sidle"

// keyringUser normalizes a store path into a stable keyring account name.
func keyringUser(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve store path: %w", err)
	}
	return abs, nil
}

// SavePassword stores a store file's password in the OS keyring.
func SavePassword(path string, password []byte) error {
	user, err := keyringUser(path)
	if err != nil {
		return err
	}
	return keyring.Set(keyringService, user, string(password))
}

// KeyringPassword retrieves a store file's password from the OS keyring.
func KeyringPassword(path string) ([]byte, error) {
	user, err := keyringUser(path)
	if err != nil {
		return nil, err
	}
	password, err := keyring.Get(keyringService, user)
	if err != nil {
		return nil, err
	}
	return []byte(password), nil
}

// DeletePassword removes a store file's password from the OS keyring.
func DeletePassword(path string) error {
	user, err := keyringUser(path)
	if err != nil {
		return err
	}
	return keyring.Delete(keyringService, user)
}

// HasPassword checks if a password is stored in the keyring for the path.
func HasPassword(path string) bool {
	_, err := KeyringPassword(path)
	return err == nil
}
