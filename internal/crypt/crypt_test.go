package crypt

import (
	"bytes"
	"io"
	"testing"

	"github.com/fgeck/grisbi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWorkFactor keeps scrypt cheap; the default takes about a second per
// operation, which is fine for backups and unacceptable for a test suite.
const testWorkFactor = 10

func encrypt(t *testing.T, passphrase string, plaintext []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := Encrypt(&buf, passphrase, testWorkFactor)
	require.NoError(t, err)
	_, err = w.Write(plaintext)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	ciphertext := encrypt(t, "correct horse", []byte("hello"))

	r, err := Decrypt(bytes.NewReader(ciphertext), "correct horse")
	require.NoError(t, err)
	plaintext, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), plaintext)
}

func TestDecrypt_WrongPassphrase(t *testing.T) {
	ciphertext := encrypt(t, "correct horse", []byte("hello"))

	_, err := Decrypt(bytes.NewReader(ciphertext), "battery staple")
	assert.ErrorIs(t, err, models.ErrWrongPassphrase)
}

func TestDecrypt_CorruptInput(t *testing.T) {
	_, err := Decrypt(bytes.NewReader([]byte("not an age file at all")), "correct horse")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrWrongPassphrase)
}
