package prune

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("dump"), 0o644))

	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	return path
}

func TestPruneRetention(t *testing.T) {
	dir := t.TempDir()

	old := writeAged(t, dir, "enwiki-20240101-pages-articles-multistream1.xml.bz2", 40*24*time.Hour)
	recent := writeAged(t, dir, "enwiki-20240201-pages-articles-multistream1.xml.bz2", 5*24*time.Hour)

	pruner := New(dir, AgeFilter(30*24*time.Hour), zerolog.Nop())
	removed, err := pruner.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, old)
	assert.FileExists(t, recent)
}

func TestPruneSkipsInProgress(t *testing.T) {
	dir := t.TempDir()

	inProgress := writeAged(t, dir, "enwiki-20240101-pages-articles-multistream1.xml.bz2.!qB", 40*24*time.Hour)

	pruner := New(dir, AgeFilter(30*24*time.Hour), zerolog.Nop())
	removed, err := pruner.Prune()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.FileExists(t, inProgress)
}

func TestPruneSkipsNonMatchingNames(t *testing.T) {
	dir := t.TempDir()

	kept := []string{
		writeAged(t, dir, "notes.txt", 400*24*time.Hour),
		writeAged(t, dir, "dewiki-20240101-pages-articles-multistream1.xml.bz2", 400*24*time.Hour),
		writeAged(t, dir, "enwiki-20240101-pages-articles-multistream1.xml", 400*24*time.Hour),
		writeAged(t, dir, "enwiki-latest-pages-articles-multistream1.xml.bz2", 400*24*time.Hour),
	}

	pruner := New(dir, AgeFilter(30*24*time.Hour), zerolog.Nop())
	removed, err := pruner.Prune()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	for _, path := range kept {
		assert.FileExists(t, path)
	}
}

func TestPruneSkipsDirectories(t *testing.T) {
	dir := t.TempDir()

	sub := filepath.Join(dir, "enwiki-20240101-pages-articles-multistream1.xml.bz2")
	require.NoError(t, os.Mkdir(sub, 0o755))
	mtime := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(sub, mtime, mtime))

	pruner := New(dir, AgeFilter(30*24*time.Hour), zerolog.Nop())
	removed, err := pruner.Prune()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.DirExists(t, sub)
}

func TestPruneMatchesCaseInsensitively(t *testing.T) {
	dir := t.TempDir()

	old := writeAged(t, dir, "ENWIKI-20240101-Pages-Articles-Multistream1.xml.BZ2", 40*24*time.Hour)

	pruner := New(dir, AgeFilter(30*24*time.Hour), zerolog.Nop())
	removed, err := pruner.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
}

func TestPruneMissingDirectory(t *testing.T) {
	pruner := New(filepath.Join(t.TempDir(), "does-not-exist"), AgeFilter(time.Hour), zerolog.Nop())
	_, err := pruner.Prune()
	require.Error(t, err)
}
