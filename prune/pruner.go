package prune

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// dumpFileRE matches extracted enwiki dump files eligible for pruning.
var dumpFileRE = regexp.MustCompile(`(?i)^enwiki-\d{8}-pages-articles-multistream.*\.bz2$`)

// inProgressSuffix marks files qBittorrent is still writing.
const inProgressSuffix = ".!qB"

// Candidate describes a dump file considered for deletion.
type Candidate struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Filter decides whether a candidate should be deleted.
type Filter func(Candidate) bool

// AgeFilter returns a filter that selects candidates last modified before
// now minus the retention period.
func AgeFilter(retention time.Duration) Filter {
	cutoff := time.Now().Add(-retention)
	return func(c Candidate) bool {
		return c.ModTime.Before(cutoff)
	}
}

// Pruner deletes old dump files from a directory
type Pruner struct {
	dir    string
	filter Filter
	logger zerolog.Logger
}

// New creates a Pruner over the given directory
func New(dir string, filter Filter, logger zerolog.Logger) *Pruner {
	return &Pruner{
		dir:    dir,
		filter: filter,
		logger: logger,
	}
}

// Prune scans the directory (non-recursively) and deletes dump files selected
// by the filter. Files still being downloaded and names not matching the dump
// pattern are never touched. Returns the number of files removed.
func (p *Pruner) Prune() (int, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %s: %w", p.dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, inProgressSuffix) {
			// still downloading
			continue
		}
		if !dumpFileRE.MatchString(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to stat %s: %w", name, err)
		}

		candidate := Candidate{
			Name:    name,
			Path:    filepath.Join(p.dir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}

		if !p.filter(candidate) {
			continue
		}

		p.logger.Info().Str("file", name).Msg("Removing old dump")
		if err := os.Remove(candidate.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed++
	}

	p.logger.Info().Int("removed", removed).Msg("Pruned old dumps")
	return removed, nil
}
