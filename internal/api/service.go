// Package api implements the boundary contract between the comic core and
// transport adapters: series/issue lookups, page listings, page streaming,
// and progress updates, plus the JSON view types adapters serialize.
package api

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"longbox/internal/comic"
	"longbox/internal/config"
	"longbox/internal/library"
	"longbox/internal/logging"
)

// Service exposes the read/serve operations backed by the index store and
// the archive files themselves. Archives are opened per call; concurrent
// requests share nothing but the store.
type Service struct {
	store  *library.Store
	root   string
	logger *slog.Logger
}

// NewService constructs the boundary service.
func NewService(cfg *config.Config, store *library.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		root:   cfg.Paths.LibraryDir,
		logger: logging.NewComponentLogger(logger, "api"),
	}
}

// ListSeries returns all series ordered by name.
func (s *Service) ListSeries(ctx context.Context) ([]Series, error) {
	records, err := s.store.ListSeries(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Series, len(records))
	for i, record := range records {
		result[i] = Series{ID: record.ID, Name: record.Name, Path: record.Path}
	}
	return result, nil
}

// ListIssues returns a series' issues ordered by file name. An unknown
// series id yields an empty list, matching a series with no issues.
func (s *Service) ListIssues(ctx context.Context, seriesID string) ([]Issue, error) {
	records, err := s.store.ListIssues(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	result := make([]Issue, len(records))
	for i, record := range records {
		result[i] = viewIssue(record)
	}
	return result, nil
}

// GetIssue fetches one issue; library.ErrNotFound for unknown ids.
func (s *Service) GetIssue(ctx context.Context, issueID string) (Issue, error) {
	record, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return Issue{}, err
	}
	return viewIssue(record), nil
}

// ListPages enumerates an issue's ordered page entry names straight from the
// archive, then refreshes the cached page count and cover entry. The cache
// write assumes archives are immutable once indexed and is last-writer-wins;
// a failed refresh is logged, not surfaced, since the listing itself is the
// ground truth.
func (s *Service) ListPages(ctx context.Context, issueID string) ([]string, error) {
	record, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	pages, err := comic.ListPages(s.archivePath(record))
	if err != nil {
		return nil, err
	}

	cover := ""
	if len(pages) > 0 {
		cover = pages[0]
	}
	if err := s.store.UpdatePageInfo(ctx, record.ID, len(pages), cover); err != nil {
		s.logger.Warn("page cache refresh failed",
			logging.String("issue", record.ID), logging.Error(err))
	}
	return pages, nil
}

// ReadPage opens a streaming read of one page and reports its media type.
// The caller must close the reader; closing releases the archive handle even
// when the consumer disconnects mid-stream.
func (s *Service) ReadPage(ctx context.Context, issueID string, pageIndex int) (io.ReadCloser, string, error) {
	record, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, "", err
	}
	return comic.OpenPage(s.archivePath(record), pageIndex)
}

// SetProgress records the last page a reader viewed for an issue.
func (s *Service) SetProgress(ctx context.Context, issueID string, currentPage int) error {
	return s.store.SetProgress(ctx, issueID, currentPage)
}

// Status reports library-wide counts for the status endpoint.
func (s *Service) Status(ctx context.Context) (Status, error) {
	seriesCount, issueCount, err := s.store.Counts(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{LibraryRoot: s.root, SeriesCount: seriesCount, IssueCount: issueCount}, nil
}

func (s *Service) archivePath(record *library.Issue) string {
	return filepath.Join(s.root, filepath.FromSlash(record.Path))
}

func viewIssue(record *library.Issue) Issue {
	return Issue{
		ID:          record.ID,
		SeriesID:    record.SeriesID,
		Path:        record.Path,
		FileName:    record.FileName,
		CoverImage:  record.CoverImage,
		PageCount:   record.PageCount,
		CurrentPage: record.CurrentPage,
	}
}
