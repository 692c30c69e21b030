// Package sidle persists small sets of sensitive key-value records to a
// single file, encrypted under a user-supplied password.
//
// A store binds a file path to a password. Every operation is a full
// read-modify-write cycle: the file is read and decrypted, the mutation is
// applied in memory, and the full contents are re-encrypted and written
// back. The handle caches nothing between calls, so the last writer wins.
//
// Basic usage:
//
//	store, err := sidle.Open("pack.meta", []byte("hunter2"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.Set("author", "zenqi"); err != nil {
//	    log.Fatal(err)
//	}
//
//	author, err := store.Get("author")
//	if errors.Is(err, sidle.ErrNotFound) {
//	    // key absent
//	}
//
// Keys are matched case-insensitively by default. Set keeps exactly one
// entry per key; Add deliberately permits duplicates for multi-valued keys.
//
// Encryption is layered: each entry's key and value are encrypted
// individually, and the serialized entry sequence is encrypted once more
// before it reaches disk. An attacker who recovers only the outer layer
// still sees ciphertext fields.
//
// Known limitations, by design:
//   - No authentication tag. Wrong-password detection relies on the
//     decrypted payload failing UTF-8 or structural validation, which is
//     probabilistic, not guaranteed.
//   - Writes truncate and rewrite the file in place, not atomically. A
//     crash mid-write can corrupt the store.
//   - No locking between concurrent handles or processes. Concurrent
//     writers race read-modify-write cycles; the last write silently wins.
//     Callers needing concurrent access must serialize externally.
package sidle
