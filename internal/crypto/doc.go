// Package crypto provides the cryptographic primitives for sidle stores.
//
// Encryption uses AES-256-CBC with:
//   - 32-byte key derived from the password via a single SHA-256 (no salt,
//     so the same password always derives the same key)
//   - 16-byte random IV per encryption, prepended to the ciphertext
//   - pad-length-prefixed padding: the first plaintext byte stores the pad
//     amount, followed by the payload and that many trailing zero bytes
//
// There is no authentication tag. Wrong-password detection relies on the
// decrypted payload failing UTF-8 validation or structural parsing, which is
// probabilistic rather than guaranteed.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
