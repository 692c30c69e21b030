// Package record implements the in-memory encrypted record container.
//
// A Store holds an ordered sequence of entries whose key and value fields
// are each independently encrypted (own IV per field). Lookups decrypt key
// fields on the fly and compare case-insensitively by default.
//
// Invariant: after Set(k, v) exactly one entry carries k (case-insensitive),
// even if Add previously introduced duplicates. Add deliberately bypasses
// the invariant for multi-valued keys.
//
// Marshal/Unmarshal convert the sequence to a versioned length-prefixed
// binary encoding. The encoding still contains only ciphertext fields; the
// facade encrypts the marshaled buffer once more before writing to disk.
package record
