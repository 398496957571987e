package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const seriesColumns = "id, name, path"

// ListSeries returns all series ordered by display name.
func (s *Store) ListSeries(ctx context.Context) ([]*Series, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+seriesColumns+` FROM series ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var result []*Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, series)
	}
	return result, rows.Err()
}

// GetSeries fetches one series by id.
func (s *Store) GetSeries(ctx context.Context, id string) (*Series, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE id = ?`, id)
	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: series %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}
	return series, nil
}

// GetOrCreateSeries returns the series with the given unique name, creating
// it when absent. The insert is atomic with respect to the unique-name
// constraint, so concurrent callers racing on the same name both receive the
// surviving row. Reports whether this call created the series.
func (s *Store) GetOrCreateSeries(ctx context.Context, name, path string) (*Series, bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO series (id, name, path) VALUES (?, ?, ?)
         ON CONFLICT(name) DO NOTHING`,
		uuid.NewString(),
		name,
		path,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert series: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE name = ?`, name)
	series, err := scanSeries(row)
	if err != nil {
		return nil, false, fmt.Errorf("fetch series %q: %w", name, err)
	}
	return series, inserted > 0, nil
}

func scanSeries(scanner interface{ Scan(dest ...any) error }) (*Series, error) {
	var series Series
	if err := scanner.Scan(&series.ID, &series.Name, &series.Path); err != nil {
		return nil, err
	}
	return &series, nil
}
