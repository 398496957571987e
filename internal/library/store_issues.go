package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const issueColumns = "id, series_id, path, file_name, cover_image, page_count, current_page"

// ListIssues returns the issues of a series ordered by file name.
func (s *Store) ListIssues(ctx context.Context, seriesID string) ([]*Issue, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+issueColumns+` FROM issues WHERE series_id = ? ORDER BY file_name`,
		seriesID,
	)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var result []*Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}

// GetIssue fetches one issue by id.
func (s *Store) GetIssue(ctx context.Context, id string) (*Issue, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
	issue, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: issue %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return issue, nil
}

// CreateIssue indexes a newly discovered archive under its series. The
// library-relative path is unique; indexing a path twice yields
// ErrDuplicateIssue, which rescans treat as "already indexed".
func (s *Store) CreateIssue(ctx context.Context, seriesID, relPath, fileName string) (*Issue, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO issues (id, series_id, path, file_name) VALUES (?, ?, ?, ?)`,
		id,
		seriesID,
		relPath,
		fileName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIssue, relPath)
		}
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	return s.GetIssue(ctx, id)
}

// UpdatePageInfo overwrites the cached page count and cover entry for an
// issue. The cache is advisory and last-writer-wins; concurrent listings of
// the same unchanged archive write the same values.
func (s *Store) UpdatePageInfo(ctx context.Context, issueID string, pageCount int, coverImage string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE issues SET page_count = ?, cover_image = ? WHERE id = ?`,
		pageCount,
		nullableString(coverImage),
		issueID,
	)
	if err != nil {
		return fmt.Errorf("update page info: %w", err)
	}
	return requireRow(res, issueID)
}

// SetProgress records the last page index a reader viewed. Negative values
// are rejected with ErrInvalidArgument and leave the stored progress intact.
func (s *Store) SetProgress(ctx context.Context, issueID string, currentPage int) error {
	if currentPage < 0 {
		return fmt.Errorf("%w: current page %d is negative", ErrInvalidArgument, currentPage)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE issues SET current_page = ? WHERE id = ?`,
		currentPage,
		issueID,
	)
	if err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return requireRow(res, issueID)
}

func requireRow(res sql.Result, issueID string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: issue %s", ErrNotFound, issueID)
	}
	return nil
}

func scanIssue(scanner interface{ Scan(dest ...any) error }) (*Issue, error) {
	var (
		issue    Issue
		seriesID sql.NullString
		cover    sql.NullString
	)
	if err := scanner.Scan(
		&issue.ID,
		&seriesID,
		&issue.Path,
		&issue.FileName,
		&cover,
		&issue.PageCount,
		&issue.CurrentPage,
	); err != nil {
		return nil, err
	}
	issue.SeriesID = seriesID.String
	issue.CoverImage = cover.String
	return &issue, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
