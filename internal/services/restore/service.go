// Package restore extracts an encrypted archive into a directory.
package restore

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fgeck/grisbi/internal/archive"
	"github.com/fgeck/grisbi/internal/crypt"
	"github.com/fgeck/grisbi/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for restore operations.
type Service interface {
	Restore(ctx context.Context, archivePath, passphrase, destDir string) error
}

// Impl implements the Service interface.
type Impl struct {
	logger zerolog.Logger
	out    io.Writer
}

// New creates a restore service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{logger: logger, out: os.Stdout}
}

// NewWithOutput creates a restore service with an explicit output stream
// (for testing).
func NewWithOutput(logger zerolog.Logger, out io.Writer) *Impl {
	return &Impl{logger: logger, out: out}
}

// Restore decrypts archivePath and extracts the tree into destDir,
// recreating the relative root recorded at backup time.
func (s *Impl) Restore(ctx context.Context, archivePath, passphrase, destDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(archivePath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s: %w", archivePath, models.ErrArchiveNotFound)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", archivePath, err)
	}
	defer f.Close()

	plaintext, err := crypt.Decrypt(f, passphrase)
	if err != nil {
		return fmt.Errorf("decrypting %s: %w", archivePath, err)
	}

	s.logger.Debug().Str("archive", archivePath).Str("dest", destDir).Msg("extracting archive")
	if err := archive.Unpack(plaintext, destDir); err != nil {
		return fmt.Errorf("extracting %s: %w", archivePath, err)
	}

	fmt.Fprintf(s.out, "Restored from %s\n", archivePath)
	return nil
}
