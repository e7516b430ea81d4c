package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncryptor(t *testing.T) {
	enc, err := NewEncryptor("session-key")
	require.NoError(t, err)
	assert.NotNil(t, enc)

	enc, err = NewEncryptor("")
	assert.Error(t, err)
	assert.Nil(t, enc)
}

func TestSealOpen(t *testing.T) {
	enc, err := NewEncryptor("test-key-for-encryption")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"tmdb session id", "79191836ddaa0da3df76a5ffef6f07ad6ab0c641"},
		{"unicode", "セッション 🔑"},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := enc.Seal(tt.plaintext, "row-1")
			require.NoError(t, err)
			if tt.plaintext == "" {
				assert.Empty(t, ciphertext)
			} else {
				assert.NotEqual(t, tt.plaintext, ciphertext)
			}

			plaintext, err := enc.Open(ciphertext, "row-1")
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, plaintext)
		})
	}
}

func TestSeal_NonceIsRandom(t *testing.T) {
	enc, err := NewEncryptor("key")
	require.NoError(t, err)

	a, err := enc.Seal("same", "row-1")
	require.NoError(t, err)
	b, err := enc.Seal("same", "row-1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSealOpen_Binding(t *testing.T) {
	enc, err := NewEncryptor("key")
	require.NoError(t, err)

	sealed, err := enc.Seal("secret", "row-1")
	require.NoError(t, err)

	plaintext, err := enc.Open(sealed, "row-1")
	require.NoError(t, err)
	assert.Equal(t, "secret", plaintext)

	_, err = enc.Open(sealed, "row-2")
	assert.Error(t, err)
}

func TestOpen_Failures(t *testing.T) {
	enc, err := NewEncryptor("key-1")
	require.NoError(t, err)
	other, err := NewEncryptor("key-2")
	require.NoError(t, err)

	sealed, err := enc.Seal("secret", "row-1")
	require.NoError(t, err)

	_, err = other.Open(sealed, "row-1")
	assert.Error(t, err, "wrong key")

	_, err = enc.Open("not base64!", "row-1")
	assert.Error(t, err)

	_, err = enc.Open("YWJj", "row-1")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}
