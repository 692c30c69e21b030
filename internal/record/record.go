package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zenqi/sidle/internal/crypto"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrOutOfRange = errors.New("index out of range")
	ErrUnknownRef = errors.New("unknown key reference")
)

// Entry is one encrypted key/value pair. Both fields are independent
// ciphertexts, each carrying its own IV.
type Entry struct {
	Key   []byte
	Value []byte
}

// Pair is a decrypted key/value pair.
type Pair struct {
	Key   string
	Value string
}

// KeyRef selects entries in a store. Exactly one of three variants:
// ByName (case-insensitive key match), ByIndex (position) or ByRange
// (half-open position range).
type KeyRef interface {
	keyRef()
}

// ByName selects the first entry whose decrypted key matches.
type ByName string

// ByIndex selects the entry at a position.
type ByIndex int

// ByRange selects entries in [Start, End).
type ByRange struct {
	Start, End int
}

func (ByName) keyRef()  {}
func (ByIndex) keyRef() {}
func (ByRange) keyRef() {}

// Store is an ordered sequence of encrypted entries bound to one encryptor.
// Keys are compared case-insensitively unless an operation says otherwise.
// Insertion order is preserved; Set replaces a matching entry in place.
type Store struct {
	enc     *crypto.Encryptor
	entries []Entry
}

// New creates an empty store bound to enc.
func New(enc *crypto.Encryptor) *Store {
	return &Store{enc: enc}
}

// Len returns the number of entries, duplicates included.
func (s *Store) Len() int {
	return len(s.entries)
}

// Get returns the decrypted value of the first entry whose key matches.
// Returns ErrNotFound if no entry matches.
func (s *Store) Get(key string, caseSensitive bool) (string, error) {
	for i := range s.entries {
		k, err := s.enc.DecryptText(s.entries[i].Key)
		if err != nil {
			return "", fmt.Errorf("failed to decrypt key: %w", err)
		}
		if keysEqual(k, key, caseSensitive) {
			v, err := s.enc.DecryptText(s.entries[i].Value)
			if err != nil {
				return "", fmt.Errorf("failed to decrypt value: %w", err)
			}
			return v, nil
		}
	}
	return "", ErrNotFound
}

// Lookup resolves a KeyRef into decrypted pairs: one pair for ByName and
// ByIndex, the selected slice for ByRange.
func (s *Store) Lookup(ref KeyRef) ([]Pair, error) {
	switch r := ref.(type) {
	case ByName:
		for _, e := range s.entries {
			k, err := s.enc.DecryptText(e.Key)
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt key: %w", err)
			}
			if !keysEqual(k, string(r), false) {
				continue
			}
			v, err := s.enc.DecryptText(e.Value)
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt value: %w", err)
			}
			// Report the key as stored, not as the caller spelled it.
			return []Pair{{Key: k, Value: v}}, nil
		}
		return nil, ErrNotFound

	case ByIndex:
		i := int(r)
		if i < 0 || i >= len(s.entries) {
			return nil, ErrOutOfRange
		}
		p, err := s.decryptEntry(s.entries[i])
		if err != nil {
			return nil, err
		}
		return []Pair{p}, nil

	case ByRange:
		if r.Start < 0 || r.End > len(s.entries) || r.Start > r.End {
			return nil, ErrOutOfRange
		}
		pairs := make([]Pair, 0, r.End-r.Start)
		for _, e := range s.entries[r.Start:r.End] {
			p, err := s.decryptEntry(e)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, p)
		}
		return pairs, nil

	default:
		return nil, ErrUnknownRef
	}
}

// Set stores a value under key, replacing the first case-insensitive match
// in place and dropping any later duplicates, so that afterwards exactly one
// entry carries the key. Appends if no entry matches.
func (s *Store) Set(key, value string) error {
	entry, err := s.encryptPair(key, value)
	if err != nil {
		return err
	}

	// Compact into a fresh slice so a decrypt error midway leaves the
	// existing entries untouched.
	replaced := false
	kept := make([]Entry, 0, len(s.entries))
	for i := range s.entries {
		k, err := s.enc.DecryptText(s.entries[i].Key)
		if err != nil {
			return fmt.Errorf("failed to decrypt key: %w", err)
		}
		if !strings.EqualFold(k, key) {
			kept = append(kept, s.entries[i])
			continue
		}
		if !replaced {
			kept = append(kept, entry)
			replaced = true
		}
		// later duplicates are dropped
	}
	s.entries = kept

	if !replaced {
		s.entries = append(s.entries, entry)
	}
	return nil
}

// Add appends an entry without any uniqueness check. This is the escape
// hatch for multi-valued keys; Set restores uniqueness for a key later.
func (s *Store) Add(key, value string) error {
	entry, err := s.encryptPair(key, value)
	if err != nil {
		return err
	}
	s.entries = append(s.entries, entry)
	return nil
}

// Remove deletes every entry whose decrypted key matches case-insensitively
// and reports how many were removed. Removing an absent key is not an error.
func (s *Store) Remove(key string) (int, error) {
	removed := 0
	kept := make([]Entry, 0, len(s.entries))
	for i := range s.entries {
		k, err := s.enc.DecryptText(s.entries[i].Key)
		if err != nil {
			return 0, fmt.Errorf("failed to decrypt key: %w", err)
		}
		if strings.EqualFold(k, key) {
			removed++
			continue
		}
		kept = append(kept, s.entries[i])
	}
	s.entries = kept
	return removed, nil
}

// Contains reports whether any entry's key matches case-insensitively.
func (s *Store) Contains(key string) (bool, error) {
	_, err := s.Get(key, false)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Keys returns all decrypted keys in entry order, duplicates included.
func (s *Store) Keys() ([]string, error) {
	keys := make([]string, 0, len(s.entries))
	for i := range s.entries {
		k, err := s.enc.DecryptText(s.entries[i].Key)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Pairs returns all decrypted key/value pairs in entry order.
func (s *Store) Pairs() ([]Pair, error) {
	return s.Lookup(ByRange{Start: 0, End: len(s.entries)})
}

// Clear drops all entries.
func (s *Store) Clear() {
	s.entries = nil
}

// SetList replaces all values stored under key: the first value goes through
// Set (collapsing duplicates), the rest are appended with Add. An empty
// values list removes the key entirely.
func (s *Store) SetList(key string, values []string) error {
	if len(values) == 0 {
		_, err := s.Remove(key)
		return err
	}
	if err := s.Set(key, values[0]); err != nil {
		return err
	}
	for _, v := range values[1:] {
		if err := s.Add(key, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) encryptPair(key, value string) (Entry, error) {
	k, err := s.enc.Encrypt([]byte(key))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encrypt key: %w", err)
	}
	v, err := s.enc.Encrypt([]byte(value))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encrypt value: %w", err)
	}
	return Entry{Key: k, Value: v}, nil
}

func (s *Store) decryptEntry(e Entry) (Pair, error) {
	k, err := s.enc.DecryptText(e.Key)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to decrypt key: %w", err)
	}
	v, err := s.enc.DecryptText(e.Value)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to decrypt value: %w", err)
	}
	return Pair{Key: k, Value: v}, nil
}

func keysEqual(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}
