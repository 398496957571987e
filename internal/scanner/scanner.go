// Package scanner reconciles the on-disk library with the index.
//
// A scan discovers every .cbz archive under the library root, derives the
// series from the archive's immediate parent directory, and inserts whatever
// the index is missing. It never deletes or rewrites existing records: a
// vanished archive keeps its row and fails at read time instead. Running a
// scan twice over an unchanged tree is a no-op.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"longbox/internal/comic"
	"longbox/internal/config"
	"longbox/internal/library"
	"longbox/internal/logging"
)

// Scanner walks the library root and fills index gaps.
type Scanner struct {
	cfg    *config.Config
	store  *library.Store
	logger *slog.Logger

	// OnFile, when set, is invoked after each discovered archive has been
	// reconciled. Used for interactive progress display.
	OnFile func(relPath string)
}

// Summary reports what one scan did.
type Summary struct {
	ArchivesFound  int
	SeriesCreated  int
	IssuesCreated  int
	AlreadyIndexed int
	Failures       int
}

// New constructs a scanner bound to a store and library root.
func New(cfg *config.Config, store *library.Store, logger *slog.Logger) *Scanner {
	return &Scanner{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "scanner"),
	}
}

// Discover returns the library-relative paths of all archives under the
// root, in walk order. Unreadable subtrees are logged and skipped.
func (s *Scanner) Discover(ctx context.Context) ([]string, error) {
	root := s.cfg.Paths.LibraryDir
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return fmt.Errorf("walk library root: %w", walkErr)
			}
			s.logger.Warn("skipping unreadable path", logging.String("path", path), logging.Error(walkErr))
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), comic.Extension) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}
		found = append(found, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Scan discovers archives and reconciles them against the index. Per-file
// failures are counted and logged but never abort the rest of the scan.
func (s *Scanner) Scan(ctx context.Context) (Summary, error) {
	var summary Summary

	paths, err := s.Discover(ctx)
	if err != nil {
		return summary, err
	}
	summary.ArchivesFound = len(paths)
	s.logger.Info("library scan started",
		logging.String("root", s.cfg.Paths.LibraryDir),
		logging.Int("archives", len(paths)))

	for _, relPath := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := s.indexArchive(ctx, relPath, &summary); err != nil {
			summary.Failures++
			s.logger.Warn("archive not indexed", logging.String("path", relPath), logging.Error(err))
		}
		if s.OnFile != nil {
			s.OnFile(relPath)
		}
	}

	s.logger.Info("library scan finished",
		logging.Int("archives", summary.ArchivesFound),
		logging.Int("series_created", summary.SeriesCreated),
		logging.Int("issues_created", summary.IssuesCreated),
		logging.Int("already_indexed", summary.AlreadyIndexed),
		logging.Int("failures", summary.Failures))
	return summary, nil
}

func (s *Scanner) indexArchive(ctx context.Context, relPath string, summary *Summary) error {
	seriesName, seriesDir := s.seriesFor(relPath)

	series, created, err := s.store.GetOrCreateSeries(ctx, seriesName, seriesDir)
	if err != nil {
		return err
	}
	if created {
		summary.SeriesCreated++
		s.logger.Info("new series", logging.String("name", seriesName))
	}

	fileName := filepath.Base(filepath.FromSlash(relPath))
	if _, err := s.store.CreateIssue(ctx, series.ID, relPath, fileName); err != nil {
		if errors.Is(err, library.ErrDuplicateIssue) {
			summary.AlreadyIndexed++
			return nil
		}
		return err
	}
	summary.IssuesCreated++
	s.logger.Info("new issue", logging.String("series", seriesName), logging.String("path", relPath))
	return nil
}

// seriesFor maps an archive path to its series name and directory. Archives
// sitting directly at the library root have no series directory and are
// grouped under the configured unsorted series.
func (s *Scanner) seriesFor(relPath string) (name, dir string) {
	parent := filepath.Dir(filepath.FromSlash(relPath))
	if parent == "." {
		return s.cfg.Library.UnsortedSeries, s.cfg.Paths.LibraryDir
	}
	return filepath.Base(parent), filepath.Join(s.cfg.Paths.LibraryDir, parent)
}
