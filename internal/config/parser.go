// Package config provides directive file parsing.
//
// The config file is line oriented. Each line is one of:
//
//	# comment
//	path <dir>         back up a single directory
//	directory <dir>    alias for path
//	folder <dir>       back up each immediate child directory of <dir>
//	<dir>              bare path, treated as "path <dir>"
//
// Paths support a leading ~ for the home directory and $VAR / ${VAR}
// environment expansion. Undefined variables expand to the empty string
// (os.ExpandEnv semantics).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fgeck/grisbi/internal/models"
	"github.com/rs/zerolog"
)

// Parser handles directive file parsing.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a new directive file parser.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// LoadFile loads and resolves backup targets from a file path.
func (p *Parser) LoadFile(path string) ([]models.BackupTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	targets, err := p.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return targets, nil
}

// Parse resolves config content into an ordered list of backup targets.
// Folder directives are expanded eagerly, so the result reflects the
// subdirectories that exist right now. Returns models.ErrNoTargets when the
// content yields no targets at all.
func (p *Parser) Parse(content string) ([]models.BackupTarget, error) {
	var targets []models.BackupTarget
	for _, line := range strings.Split(content, "\n") {
		directive := p.ParseLine(line)
		switch directive.Kind {
		case models.DirectiveBlank, models.DirectiveComment:
			continue
		case models.DirectivePath:
			if target, ok := p.makeTarget(directive.Dir); ok {
				targets = append(targets, target)
			}
		case models.DirectiveFolder:
			targets = append(targets, p.expandFolder(directive.Dir)...)
		}
	}
	if len(targets) == 0 {
		return nil, models.ErrNoTargets
	}
	return targets, nil
}

// ParseLine classifies a single config line. The keyword match applies to the
// first whitespace-separated token only; everything after it is the path.
func (p *Parser) ParseLine(line string) models.Directive {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return models.Directive{Kind: models.DirectiveBlank}
	}
	if strings.HasPrefix(trimmed, "#") {
		return models.Directive{Kind: models.DirectiveComment}
	}

	kind := models.DirectivePath
	raw := trimmed
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i > 0 {
		keyword, rest := trimmed[:i], strings.TrimSpace(trimmed[i:])
		switch keyword {
		case "path", "directory":
			raw = rest
		case "folder":
			kind = models.DirectiveFolder
			raw = rest
		}
	}
	return models.Directive{Kind: kind, Dir: p.expandPath(raw)}
}

// expandPath expands a leading ~ to the home directory, then environment
// variables in the format ${VAR} or $VAR.
func (p *Parser) expandPath(raw string) string {
	s := raw
	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = home + s[1:]
		}
	}
	return os.ExpandEnv(s)
}

// makeTarget derives the archive base name from the final path component.
// Whether the directory exists is checked at backup time, not here.
func (p *Parser) makeTarget(dir string) (models.BackupTarget, bool) {
	clean := filepath.Clean(dir)
	name := filepath.Base(clean)
	if name == "." || name == string(filepath.Separator) {
		p.logger.Warn().Str("path", dir).Msg("cannot derive an archive name from path, skipping")
		return models.BackupTarget{}, false
	}
	return models.BackupTarget{Name: name, SourceDir: clean}, true
}

// expandFolder emits one target per immediate child directory, in lexical
// order. A missing or unreadable folder yields zero targets, which is only
// fatal if the whole file ends up empty.
func (p *Parser) expandFolder(dir string) []models.BackupTarget {
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.logger.Warn().Err(err).Str("folder", dir).Msg("folder is not readable, skipping")
		return nil
	}

	var targets []models.BackupTarget
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if target, ok := p.makeTarget(filepath.Join(dir, entry.Name())); ok {
			targets = append(targets, target)
		}
	}
	if len(targets) == 0 {
		p.logger.Warn().Str("folder", dir).
			Msg("folder has no subdirectories, skipping (use 'path' to back up the directory itself)")
	}
	return targets
}
