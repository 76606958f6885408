// Package backup orchestrates compressing and encrypting backup targets.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fgeck/grisbi/internal/archive"
	"github.com/fgeck/grisbi/internal/crypt"
	"github.com/fgeck/grisbi/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for backup runs.
type Service interface {
	Run(ctx context.Context, targets []models.BackupTarget, passphrase string) (*models.BackupSummary, error)
}

// Impl implements the Service interface.
type Impl struct {
	logger     zerolog.Logger
	out        io.Writer
	workDir    string
	workFactor int
	now        func() time.Time
}

// New creates a backup service writing archives to the current directory.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		logger:     logger,
		out:        os.Stdout,
		workDir:    ".",
		workFactor: crypt.DefaultWorkFactor,
		now:        time.Now,
	}
}

// NewWithOptions creates a backup service with explicit output stream,
// working directory, scrypt work factor, and clock (for testing).
func NewWithOptions(logger zerolog.Logger, out io.Writer, workDir string, workFactor int, now func() time.Time) *Impl {
	return &Impl{
		logger:     logger,
		out:        out,
		workDir:    workDir,
		workFactor: workFactor,
		now:        now,
	}
}

// Run produces one encrypted archive per target, in order. The capture time
// is taken once before the loop, so every archive of a run carries the same
// timestamp regardless of how long earlier targets take. A target whose
// source directory is missing is skipped with a warning; any other failure
// aborts the run, leaving archives from earlier targets in place.
func (s *Impl) Run(ctx context.Context, targets []models.BackupTarget, passphrase string) (*models.BackupSummary, error) {
	capture := s.now()
	summary := &models.BackupSummary{}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		info, err := os.Stat(target.SourceDir)
		if err != nil || !info.IsDir() {
			s.logger.Warn().Str("path", target.SourceDir).
				Msg("path is not a directory or does not exist, skipping")
			summary.Skipped++
			continue
		}

		filename := archive.Filename(target.Name, capture)
		size, err := s.writeArchive(filepath.Join(s.workDir, filename), target.SourceDir, passphrase)
		if err != nil {
			return summary, fmt.Errorf("backing up %s: %w", target.SourceDir, err)
		}

		fmt.Fprintf(s.out, "./%s (%d bytes)\n", filename, size)
		summary.ArchiveCount++
		summary.TotalBytes += size
	}

	fmt.Fprintf(s.out, "%d archive(s) created, total size: %d bytes\n",
		summary.ArchiveCount, summary.TotalBytes)
	return summary, nil
}

// writeArchive streams the packed tree through the encryptor into outPath
// and returns the resulting file size. The partial file is removed on any
// failure.
func (s *Impl) writeArchive(outPath, sourceDir, passphrase string) (int64, error) {
	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("creating archive file: %w", err)
	}

	fail := func(e error) (int64, error) {
		f.Close()
		os.Remove(outPath)
		return 0, e
	}

	encryptor, err := crypt.Encrypt(f, passphrase, s.workFactor)
	if err != nil {
		return fail(err)
	}
	if err := archive.Pack(encryptor, sourceDir); err != nil {
		encryptor.Close()
		return fail(err)
	}
	if err := encryptor.Close(); err != nil {
		return fail(fmt.Errorf("finalizing encryption: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return 0, fmt.Errorf("closing archive file: %w", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
