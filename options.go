package sidle

import "os"

const defaultFileMode = os.FileMode(0600)

// storeConfig holds configuration for opening a store.
type storeConfig struct {
	create        bool
	caseSensitive bool
	fileMode      os.FileMode
}

// Option configures a store handle.
type Option func(*storeConfig)

// WithoutCreate makes Open fail if the store file does not exist, instead
// of creating an empty one.
func WithoutCreate() Option {
	return func(c *storeConfig) {
		c.create = false
	}
}

// WithCaseSensitive makes Get and Pop match keys case-sensitively. Set, Add
// and Remove keep their case-insensitive uniqueness semantics regardless.
func WithCaseSensitive() Option {
	return func(c *storeConfig) {
		c.caseSensitive = true
	}
}

// WithFileMode sets the permission bits used when creating or rewriting the
// store file. Defaults to 0600.
func WithFileMode(mode os.FileMode) Option {
	return func(c *storeConfig) {
		c.fileMode = mode
	}
}
