package sidle

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/zenqi/sidle/internal/crypto"
	"github.com/zenqi/sidle/internal/record"
)

// Pair is a decrypted key/value pair returned by positional lookups.
type Pair = record.Pair

// Store binds a file path to a password. Every operation reloads the file,
// applies its change and, for mutations, rewrites the full contents. The
// mutex serializes operations on this handle only; other handles and other
// processes are not coordinated with.
type Store struct {
	mu       sync.Mutex
	path     string
	password []byte
	enc      *crypto.Encryptor
	cfg      storeConfig
	closed   bool
}

// Open binds path and password into a store handle. If the file does not
// exist it is created empty (zero bytes), which represents "store exists,
// no entries yet"; WithoutCreate disables this. The key is derived once and
// held by the handle until Close.
func Open(path string, password []byte, opts ...Option) (*Store, error) {
	cfg := storeConfig{
		create:   true,
		fileMode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat store file: %w", err)
		}
		if !cfg.create {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		if err := os.WriteFile(path, nil, cfg.fileMode); err != nil {
			return nil, fmt.Errorf("failed to create store file: %w", err)
		}
	}

	// Copy the password so the caller can clear their buffer.
	pw := make([]byte, len(password))
	copy(pw, password)

	return &Store{
		path:     path,
		password: pw,
		enc:      crypto.NewEncryptor(crypto.DeriveKey(pw)),
		cfg:      cfg,
	}, nil
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value of the first entry whose key matches. Matching is
// case-insensitive unless the store was opened WithCaseSensitive.
func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load()
	if err != nil {
		return "", err
	}
	v, err := rs.Get(key, s.cfg.caseSensitive)
	return v, translateErr(err)
}

// GetDefault is Get with a fallback value for absent keys.
func (s *Store) GetDefault(key, fallback string) (string, error) {
	v, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	return v, err
}

// GetAt returns the decrypted pair at position i.
func (s *Store) GetAt(i int) (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load()
	if err != nil {
		return Pair{}, err
	}
	pairs, err := rs.Lookup(record.ByIndex(i))
	if err != nil {
		return Pair{}, translateErr(err)
	}
	return pairs[0], nil
}

// GetRange returns the decrypted pairs in positions [start, end).
func (s *Store) GetRange(start, end int) ([]Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load()
	if err != nil {
		return nil, err
	}
	pairs, err := rs.Lookup(record.ByRange{Start: start, End: end})
	return pairs, translateErr(err)
}

// Set stores value under key, collapsing any case-insensitive duplicates so
// that exactly one entry carries the key afterwards.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modify(func(rs *record.Store) error {
		return rs.Set(key, value)
	})
}

// Add appends an entry without a uniqueness check, allowing multi-valued
// keys. A later Set on the same key collapses the duplicates again.
func (s *Store) Add(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modify(func(rs *record.Store) error {
		return rs.Add(key, value)
	})
}

// SetList replaces all values stored under key with the given list. An
// empty list removes the key.
func (s *Store) SetList(key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modify(func(rs *record.Store) error {
		return rs.SetList(key, values)
	})
}

// Remove deletes every entry whose key matches case-insensitively.
// Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modify(func(rs *record.Store) error {
		_, err := rs.Remove(key)
		return err
	})
}

// Pop removes the key and returns the value it had. Returns ErrNotFound
// (and removes nothing) if the key is absent.
func (s *Store) Pop(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.modify(func(rs *record.Store) error {
		v, err := rs.Get(key, s.cfg.caseSensitive)
		if err != nil {
			return err
		}
		value = v
		_, err = rs.Remove(key)
		return err
	})
	return value, err
}

// Clear removes all entries.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modify(func(rs *record.Store) error {
		rs.Clear()
		return nil
	})
}

// Contains reports whether the key exists.
func (s *Store) Contains(key string) (bool, error) {
	_, err := s.Get(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Keys returns all decrypted keys in entry order, duplicates included.
func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load()
	if err != nil {
		return nil, err
	}
	keys, err := rs.Keys()
	return keys, translateErr(err)
}

// Len returns the number of entries.
func (s *Store) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.load()
	if err != nil {
		return 0, err
	}
	return rs.Len(), nil
}

// Close clears the password and derived key from memory. The handle must
// not be used afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.enc.Destroy()
	crypto.ClearBytes(s.password)
	return nil
}

// String renders the store with its password masked, mirroring the entry
// count and key names when the file is readable.
func (s *Store) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	masked := MaskPassword(string(s.password))
	rs, err := s.load()
	if err != nil {
		return fmt.Sprintf("Store(file=%s, password=%s)", s.path, masked)
	}
	keys, err := rs.Keys()
	if err != nil {
		return fmt.Sprintf("Store(file=%s, password=%s)", s.path, masked)
	}
	return fmt.Sprintf("Store(file=%s, password=%s, length=%d, keys=%v)", s.path, masked, rs.Len(), keys)
}

// load reads the file and decodes it into a record store. A zero-length
// file is a valid empty store and is not decrypted.
func (s *Store) load() (*record.Store, error) {
	if s.closed {
		return nil, ErrClosed
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	rs := record.New(s.enc)
	if len(raw) == 0 {
		return rs, nil
	}

	plaintext, err := s.enc.Decrypt(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrongPassword, err)
	}
	if err := rs.Unmarshal(plaintext); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrongPassword, err)
	}
	return rs, nil
}

// modify runs one mutation as a full read-modify-write cycle.
func (s *Store) modify(mutate func(*record.Store) error) error {
	rs, err := s.load()
	if err != nil {
		return err
	}
	if err := mutate(rs); err != nil {
		return translateErr(err)
	}
	return s.save(rs)
}

// save re-encrypts the record store and rewrites the file in full. The
// write truncates in place; a crash between truncate and write completion
// corrupts the file. A temp-file rename swap would close that gap but is
// not performed here.
func (s *Store) save(rs *record.Store) error {
	blob, err := s.enc.Encrypt(rs.Marshal())
	if err != nil {
		return fmt.Errorf("failed to encrypt store: %w", err)
	}
	if err := os.WriteFile(s.path, blob, s.cfg.fileMode); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}
