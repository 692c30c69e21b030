package sidle

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/zenqi/sidle/internal/crypto"
)

// PasswordEnvVar is checked by PasswordFromEnv before any prompting.
const PasswordEnvVar = "SIDLE_PASSWORD"

// ReadPassword reads a password from the terminal without echoing.
// The caller is responsible for clearing the returned bytes.
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match.
func ReadPasswordConfirm() ([]byte, error) {
	password1, err := ReadPassword("Enter password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, fmt.Errorf("passwords do not match")
	}

	// Return a copy of the password
	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// PasswordFromEnv reads the password from SIDLE_PASSWORD, or nil if unset.
func PasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnvVar)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, []byte(password))
	return result
}

// MaskPassword replaces all but the trailing 40% of a password with
// asterisks for display. Passwords of two characters or fewer are fully
// masked.
func MaskPassword(password string) string {
	if len(password) <= 2 {
		return strings.Repeat("*", len(password))
	}
	visible := len(password) * 40 / 100
	return strings.Repeat("*", len(password)-visible) + password[len(password)-visible:]
}
