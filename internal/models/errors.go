package models

import "errors"

// Sentinel errors matched with errors.Is at the CLI boundary. Callers wrap
// them with fmt.Errorf and %w to add context.
var (
	// ErrNoTargets means the config file resolved to zero backup targets.
	ErrNoTargets = errors.New("no backup targets configured")

	// ErrPassphraseMismatch means the interactive confirmation prompt did
	// not match the first entry.
	ErrPassphraseMismatch = errors.New("passphrases do not match")

	// ErrEmptyPassphrase means an empty passphrase was supplied.
	ErrEmptyPassphrase = errors.New("passphrase is empty")

	// ErrWrongPassphrase means decryption failed because the passphrase
	// does not match the archive.
	ErrWrongPassphrase = errors.New("incorrect passphrase")

	// ErrArchiveNotFound means the restore source file does not exist.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrInvalidDays means the prune age argument was not a positive integer.
	ErrInvalidDays = errors.New("days must be a positive integer")
)
