package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrCiphertextTooShort is returned when a value cannot hold a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Encryptor seals short secrets, such as TMDB session ids, with AES-256-GCM.
// Ciphertexts are base64(nonce || sealed).
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor derives a 32 byte key from key with SHA-256.
func NewEncryptor(key string) (*Encryptor, error) {
	if key == "" {
		return nil, fmt.Errorf("encryption key cannot be empty")
	}

	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{aead: aead}, nil
}

// Seal encrypts plaintext bound to binding, so the value only opens for the
// same binding (for example the id of the row that stores it). Empty input
// stays empty.
func (e *Encryptor) Seal(plaintext, binding string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), []byte(binding))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal with the same binding.
func (e *Encryptor) Open(ciphertext, binding string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	n := e.aead.NonceSize()
	if len(data) < n {
		return "", ErrCiphertextTooShort
	}

	plaintext, err := e.aead.Open(nil, data[:n], data[n:], []byte(binding))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}
