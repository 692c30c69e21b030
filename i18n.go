package sidle

import (
	"errors"

	"github.com/zenqi/sidle/internal/i18n"
	"github.com/zenqi/sidle/internal/record"
)

// Explain returns a human-readable description of a store error, localized
// to the first supported language tag (BCP 47, most preferred first).
// English is the fallback. Returns the empty string for a nil error.
func Explain(err error, langs ...string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, record.ErrCorrupt):
		return i18n.T("CorruptStore", langs...)
	case errors.Is(err, ErrWrongPassword):
		return i18n.T("WrongPassword", langs...)
	case errors.Is(err, ErrNotFound):
		return i18n.T("NotFound", langs...)
	case errors.Is(err, ErrClosed):
		return i18n.T("StoreClosed", langs...)
	default:
		return i18n.T("UnknownError", langs...)
	}
}
