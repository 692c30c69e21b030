package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	KeySize   = 32            // AES-256 key size
	BlockSize = aes.BlockSize // CBC block and IV size
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrInvalidPadding    = errors.New("invalid padding")
	ErrNotText           = errors.New("plaintext is not valid UTF-8")
)

// DeriveKey hashes a password into an AES-256 key. The derivation is
// deliberately unsalted: the same password always yields the same key, so no
// extra key material has to be stored alongside the ciphertext. The trade-off
// is reduced dictionary-attack resistance; this scheme does not claim
// password hardening.
func DeriveKey(password []byte) []byte {
	key := sha256.Sum256(password)
	return key[:]
}

// Encryptor encrypts and decrypts byte buffers with AES-256-CBC.
//
// There is no authentication tag. The only integrity signal is that a wrong
// key almost never decrypts to valid UTF-8 (see DecryptText) or to a
// well-formed record structure.
type Encryptor struct {
	key []byte
}

// NewEncryptor creates a new encryptor with the given key
func NewEncryptor(key []byte) *Encryptor {
	return &Encryptor{
		key: key,
	}
}

// Encrypt pads and encrypts plaintext, returning IV ++ ciphertext.
// A fresh random IV is generated per call.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pad(plaintext, BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	result := make([]byte, BlockSize+len(ciphertext))
	copy(result, iv)
	copy(result[BlockSize:], ciphertext)

	return result, nil
}

// Decrypt splits blob into IV and ciphertext, decrypts, and strips padding.
func (e *Encryptor) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < 2*BlockSize || len(blob)%BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := blob[:BlockSize]
	ciphertext := blob[BlockSize:]

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return unpad(padded)
}

// DecryptText decrypts blob and additionally requires the plaintext to be
// valid UTF-8. With no authentication tag this check is the store's only
// password validation: a wrong key that happens to produce valid UTF-8 slips
// through, but for typical payloads that is overwhelmingly unlikely.
func (e *Encryptor) DecryptText(blob []byte) (string, error) {
	plaintext, err := e.Decrypt(blob)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", ErrNotText
	}
	return string(plaintext), nil
}

// Destroy clears the encryptor's key from memory
func (e *Encryptor) Destroy() {
	ClearBytes(e.key)
}

// pad prefixes data with a pad-length byte and appends that many zero bytes,
// bringing the buffer to a multiple of blockSize. The first byte stores the
// pad amount, which is why the block size must fit in one byte.
func pad(data []byte, blockSize int) []byte {
	if blockSize > 256 {
		panic("crypto: block size must not exceed 256 bytes")
	}
	p := (blockSize - (len(data)+1)%blockSize) % blockSize
	padded := make([]byte, 0, 1+len(data)+p)
	padded = append(padded, byte(p))
	padded = append(padded, data...)
	return append(padded, make([]byte, p)...)
}

// unpad reverses pad: reads the pad length from the leading byte and strips
// it plus the trailing pad bytes.
func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPadding
	}
	p := int(data[0])
	if p == 0 {
		return data[1:], nil
	}
	if p > len(data)-1 {
		return nil, ErrInvalidPadding
	}
	return data[1 : len(data)-p], nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
