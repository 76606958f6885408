// Package crypt provides passphrase-based stream encryption in the age
// format. Archives written here are plain age files with a single scrypt
// recipient, so they can also be opened with `age -d -p`.
package crypt

import (
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
	"github.com/fgeck/grisbi/internal/models"
)

// DefaultWorkFactor is the scrypt cost used for new archives. It matches
// the age CLI default for passphrase encryption.
const DefaultWorkFactor = 18

// Encrypt wraps dst in an encrypting writer keyed by passphrase. The
// returned writer must be closed to flush the final chunk. workFactor <= 0
// selects DefaultWorkFactor; tests pass a small value to stay fast.
func Encrypt(dst io.Writer, passphrase string, workFactor int) (io.WriteCloser, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("deriving key from passphrase: %w", err)
	}
	if workFactor <= 0 {
		workFactor = DefaultWorkFactor
	}
	recipient.SetWorkFactor(workFactor)

	w, err := age.Encrypt(dst, recipient)
	if err != nil {
		return nil, fmt.Errorf("starting encryption: %w", err)
	}
	return w, nil
}

// Decrypt wraps src in a decrypting reader keyed by passphrase. A passphrase
// that does not match the archive yields models.ErrWrongPassphrase; anything
// else wrong with the header is reported as corrupt input. Payload corruption
// surfaces later, from reads on the returned reader.
func Decrypt(src io.Reader, passphrase string) (io.Reader, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("deriving key from passphrase: %w", err)
	}

	r, err := age.Decrypt(src, identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, models.ErrWrongPassphrase
		}
		return nil, fmt.Errorf("reading encrypted input: %w", err)
	}
	return r, nil
}
