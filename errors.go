package sidle

import (
	"errors"
	"fmt"

	"github.com/zenqi/sidle/internal/crypto"
	"github.com/zenqi/sidle/internal/record"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrWrongPassword is returned when decryption or structural parsing of
	// the store fails. Without an authentication tag a wrong password and a
	// corrupted file are indistinguishable, so both surface here.
	ErrWrongPassword = errors.New("wrong password or corrupt data")

	// ErrNotFound is returned by Get when no entry matches the key.
	ErrNotFound = errors.New("key not found")

	// ErrOutOfRange is returned by GetAt and GetRange for invalid positions.
	ErrOutOfRange = record.ErrOutOfRange

	// ErrClosed is returned when operations are attempted on a closed store.
	ErrClosed = errors.New("store is closed")
)

// translateErr maps internal errors onto the package's sentinel errors,
// keeping the cause in the chain.
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, record.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, crypto.ErrNotText),
		errors.Is(err, crypto.ErrInvalidCiphertext),
		errors.Is(err, crypto.ErrInvalidPadding),
		errors.Is(err, record.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrWrongPassword, err)
	default:
		return err
	}
}
