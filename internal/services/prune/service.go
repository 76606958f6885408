// Package prune deletes archives older than a retention threshold.
package prune

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fgeck/grisbi/internal/archive"
	"github.com/fgeck/grisbi/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for prune runs.
type Service interface {
	Prune(ctx context.Context, dir string, maxAgeDays int) (*models.PruneSummary, error)
}

// Impl implements the Service interface.
type Impl struct {
	logger zerolog.Logger
	out    io.Writer
	now    func() time.Time
}

// New creates a prune service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{logger: logger, out: os.Stdout, now: time.Now}
}

// NewWithOptions creates a prune service with an explicit output stream and
// clock (for testing).
func NewWithOptions(logger zerolog.Logger, out io.Writer, now func() time.Time) *Impl {
	return &Impl{logger: logger, out: out, now: now}
}

// Prune deletes every archive in dir whose embedded timestamp is strictly
// older than maxAgeDays days. Files whose names do not carry a parseable
// timestamp are skipped with a warning and never deleted. The age of a file
// is judged by its filename, not its inode times, so archives copied
// between machines prune correctly.
func (s *Impl) Prune(ctx context.Context, dir string, maxAgeDays int) (*models.PruneSummary, error) {
	if maxAgeDays <= 0 {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidDays, maxAgeDays)
	}

	cutoff := s.now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	summary := &models.PruneSummary{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), archive.Suffix) {
			continue
		}

		captured, ok := archive.ParseFilename(entry.Name())
		if !ok {
			s.logger.Warn().Str("file", entry.Name()).
				Msg("cannot parse timestamp in filename, skipping")
			continue
		}
		if !captured.Before(cutoff) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("cannot stat file, skipping")
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return summary, fmt.Errorf("deleting %s: %w", entry.Name(), err)
		}

		fmt.Fprintf(s.out, "Deleted %s (%d bytes)\n", entry.Name(), info.Size())
		summary.DeletedCount++
		summary.BytesFreed += info.Size()
	}

	fmt.Fprintf(s.out, "%d archive(s) deleted, %d bytes freed\n",
		summary.DeletedCount, summary.BytesFreed)
	return summary, nil
}
