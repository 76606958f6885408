package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fgeck/grisbi/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser() *Parser {
	return NewParser(zerolog.New(io.Discard))
}

func TestParse_PathDirectives(t *testing.T) {
	content := `
path /data/photos
directory /data/music
/data/documents
`
	targets, err := testParser().Parse(content)

	require.NoError(t, err)
	require.Len(t, targets, 3)
	assert.Equal(t, models.BackupTarget{Name: "photos", SourceDir: "/data/photos"}, targets[0])
	assert.Equal(t, models.BackupTarget{Name: "music", SourceDir: "/data/music"}, targets[1])
	assert.Equal(t, models.BackupTarget{Name: "documents", SourceDir: "/data/documents"}, targets[2])
}

func TestParse_PathEmittedEvenWhenMissing(t *testing.T) {
	// Existence is a backup-time concern, not a parse-time one.
	targets, err := testParser().Parse("path /does/not/exist/anywhere")

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "anywhere", targets[0].Name)
}

func TestParse_CommentsAndBlanksOnly(t *testing.T) {
	content := `
# backup locations

# nothing enabled yet
`
	targets, err := testParser().Parse(content)

	assert.ErrorIs(t, err, models.ErrNoTargets)
	assert.Nil(t, targets)
}

func TestParse_EmptyContent(t *testing.T) {
	_, err := testParser().Parse("")
	assert.ErrorIs(t, err, models.ErrNoTargets)
}

func TestParse_FolderExpandsChildDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c"), []byte("not a dir"), 0o644))

	targets, err := testParser().Parse("folder " + dir)

	require.NoError(t, err)
	require.Len(t, targets, 2)
	// Lexical order, regular file excluded, the folder itself excluded.
	assert.Equal(t, models.BackupTarget{Name: "a", SourceDir: filepath.Join(dir, "a")}, targets[0])
	assert.Equal(t, models.BackupTarget{Name: "b", SourceDir: filepath.Join(dir, "b")}, targets[1])
}

func TestParse_FolderMissingIsNotFatalWhenOtherTargetsExist(t *testing.T) {
	content := `
folder /does/not/exist
path /data/photos
`
	targets, err := testParser().Parse(content)

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "photos", targets[0].Name)
}

func TestParse_FolderMissingAloneIsFatal(t *testing.T) {
	_, err := testParser().Parse("folder /does/not/exist")
	assert.ErrorIs(t, err, models.ErrNoTargets)
}

func TestParse_OrderFollowsDirectives(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "x"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "y"), 0o755))

	content := "path /data/first\nfolder " + dir + "\npath /data/last\n"
	targets, err := testParser().Parse(content)

	require.NoError(t, err)
	require.Len(t, targets, 4)
	assert.Equal(t, "first", targets[0].Name)
	assert.Equal(t, "x", targets[1].Name)
	assert.Equal(t, "y", targets[2].Name)
	assert.Equal(t, "last", targets[3].Name)
}

func TestParse_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("GRISBI_TEST_BASE", "/srv/data")

	targets, err := testParser().Parse("path $GRISBI_TEST_BASE/photos")

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "/srv/data/photos", targets[0].SourceDir)
}

func TestParse_UndefinedVariableExpandsToEmpty(t *testing.T) {
	targets, err := testParser().Parse("path /data/$GRISBI_TEST_UNSET_VAR/photos")

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "/data/photos", targets[0].SourceDir)
}

func TestParse_ExpandsTilde(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	targets, err := testParser().Parse("~/photos")

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "/home/alice/photos", targets[0].SourceDir)
}

func TestParse_RootPathHasNoUsableName(t *testing.T) {
	// "/" cannot name an archive; the line is skipped with a warning.
	_, err := testParser().Parse("path /")
	assert.ErrorIs(t, err, models.ErrNoTargets)
}

func TestParseLine_Kinds(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind models.DirectiveKind
		dir  string
	}{
		{"blank", "   ", models.DirectiveBlank, ""},
		{"comment", "# a comment", models.DirectiveComment, ""},
		{"path", "path /data", models.DirectivePath, "/data"},
		{"directory alias", "directory /data", models.DirectivePath, "/data"},
		{"folder", "folder /data", models.DirectiveFolder, "/data"},
		{"bare", "/data", models.DirectivePath, "/data"},
		{"bare with spaces", "/data/my photos", models.DirectivePath, "/data/my photos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directive := testParser().ParseLine(tt.line)
			assert.Equal(t, tt.kind, directive.Kind)
			assert.Equal(t, tt.dir, directive.Dir)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := testParser().LoadFile(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grisbirc")
	require.NoError(t, os.WriteFile(path, []byte("# config\npath /data/photos\n"), 0o644))

	targets, err := testParser().LoadFile(path)

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "photos", targets[0].Name)
}
