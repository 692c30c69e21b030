package record

import (
	"errors"
	"testing"

	"github.com/zenqi/sidle/internal/crypto"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(crypto.NewEncryptor(crypto.DeriveKey([]byte("test123"))))
}

func TestSetGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("username", "alice"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, err := s.Get("username", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "alice" {
		t.Errorf("Expected alice, got %s", v)
	}

	if _, err := s.Get("missing", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSetCaseInsensitiveUniqueness(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("Username", "alice"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("username", "bob"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("Expected 1 entry after case-variant set, got %d", s.Len())
	}

	v, err := s.Get("USERNAME", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "bob" {
		t.Errorf("Expected bob, got %s", v)
	}
}

func TestGetCaseSensitive(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("Token", "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := s.Get("token", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Case-sensitive get should miss, got %v", err)
	}
	if v, err := s.Get("Token", true); err != nil || v != "abc" {
		t.Errorf("Case-sensitive get with exact key: got %q, %v", v, err)
	}
}

func TestAddPermitsDuplicates(t *testing.T) {
	s := newTestStore(t)

	if err := s.Add("tag", "a"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add("tag", "b"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "tag" || keys[1] != "tag" {
		t.Errorf("Expected two tag keys, got %v", keys)
	}

	// Get returns the first value in sequence order
	if v, _ := s.Get("tag", false); v != "a" {
		t.Errorf("Expected first value a, got %s", v)
	}

	removed, err := s.Remove("tag")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed != 2 || s.Len() != 0 {
		t.Errorf("Expected both duplicates removed, removed=%d len=%d", removed, s.Len())
	}
}

func TestSetCollapsesDuplicates(t *testing.T) {
	s := newTestStore(t)

	if err := s.Add("Tag", "a"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add("tag", "b"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Set("TAG", "c"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("Expected duplicates collapsed to 1 entry, got %d", s.Len())
	}
	if v, _ := s.Get("tag", false); v != "c" {
		t.Errorf("Expected c, got %s", v)
	}
}

func TestSetPreservesPosition(t *testing.T) {
	s := newTestStore(t)

	for _, kv := range [][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}} {
		if err := s.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := s.Set("B", "20"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 3 || keys[1] != "B" {
		t.Errorf("Replacement should stay in place, got %v", keys)
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	removed, err := s.Remove("missing")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed != 0 || s.Len() != 1 {
		t.Errorf("Remove of absent key should not change store, removed=%d len=%d", removed, s.Len())
	}
}

func TestContains(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("lang", "fil"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	ok, err := s.Contains("LANG")
	if err != nil || !ok {
		t.Errorf("Expected contains, got %v, %v", ok, err)
	}
	ok, err = s.Contains("missing")
	if err != nil || ok {
		t.Errorf("Expected not contains, got %v, %v", ok, err)
	}
}

func TestSetListAndClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Add("tag", "stale"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.SetList("tag", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("SetList failed: %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", s.Len())
	}
	pairs, err := s.Pairs()
	if err != nil {
		t.Fatalf("Pairs failed: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if pairs[i].Value != want {
			t.Errorf("Entry %d: expected %s, got %s", i, want, pairs[i].Value)
		}
	}

	// Empty list removes the key
	if err := s.SetList("tag", nil); err != nil {
		t.Fatalf("SetList failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d entries", s.Len())
	}

	if err := s.Set("a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Clear should drop all entries, got %d", s.Len())
	}
}

func TestLookupByIndex(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("b", "2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	pairs, err := s.Lookup(ByIndex(1))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Key != "b" || pairs[0].Value != "2" {
		t.Errorf("Unexpected pair %v", pairs)
	}

	if _, err := s.Lookup(ByIndex(2)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
	if _, err := s.Lookup(ByIndex(-1)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
}

func TestLookupByRange(t *testing.T) {
	s := newTestStore(t)

	for _, kv := range [][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}} {
		if err := s.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	pairs, err := s.Lookup(ByRange{Start: 1, End: 3})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(pairs) != 2 || pairs[0].Key != "b" || pairs[1].Key != "c" {
		t.Errorf("Unexpected pairs %v", pairs)
	}

	if _, err := s.Lookup(ByRange{Start: 2, End: 1}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
	if _, err := s.Lookup(ByRange{Start: 0, End: 4}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
}

func TestLookupByName(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("Lang", "tagalog"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	pairs, err := s.Lookup(ByName("lang"))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Value != "tagalog" {
		t.Errorf("Unexpected pairs %v", pairs)
	}
	// The pair carries the stored spelling, not the caller's.
	if pairs[0].Key != "Lang" {
		t.Errorf("Expected stored key %q, got %q", "Lang", pairs[0].Key)
	}

	if _, err := s.Lookup(ByName("missing")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// A decrypt failure partway through a mutation must leave the entry list as
// it was, not half-compacted.
func TestMutationErrorLeavesEntriesIntact(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("first", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("second", "2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	// Undecryptable entry between the valid ones and any append position.
	s.entries = append(s.entries, Entry{Key: []byte{0x01}, Value: []byte{0x02}})

	if err := s.Set("first", "changed"); err == nil {
		t.Fatal("Expected Set to fail on the undecryptable entry")
	}
	if _, err := s.Remove("second"); err == nil {
		t.Fatal("Expected Remove to fail on the undecryptable entry")
	}

	if len(s.entries) != 3 {
		t.Fatalf("Expected 3 entries after failed mutations, got %d", len(s.entries))
	}
	for i, want := range []Pair{{Key: "first", Value: "1"}, {Key: "second", Value: "2"}} {
		got, err := s.decryptEntry(s.entries[i])
		if err != nil {
			t.Fatalf("Entry %d no longer decrypts: %v", i, err)
		}
		if got != want {
			t.Errorf("Entry %d = %v, want %v", i, got, want)
		}
	}
}
