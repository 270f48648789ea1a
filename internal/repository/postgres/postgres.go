// Package postgres reads trial lifecycle events from the analytics database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/logger"
	"github.com/KretovDmitry/squarehouse/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// EventRepository runs aggregate queries over bizdw_v6.lifecycle_events_trials.
type EventRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewEventRepository wraps an opened connection pool.
func NewEventRepository(db *sql.DB, logger logger.Logger) (*EventRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: *sql.DB", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	return &EventRepository{db: db, logger: logger}, nil
}

// CountOn returns the number of events created on the given day.
func (r *EventRepository) CountOn(ctx context.Context, day time.Time) (int64, error) {
	const q = `
		SELECT
			count(*) AS count
		FROM
			bizdw_v6.lifecycle_events_trials t
		WHERE
			date(t.created) = $1::date
	`

	var count int64
	err := r.db.QueryRowContext(ctx, q, day.Format(models.DateLayout)).Scan(&count)
	if err != nil {
		return 0, queryError("count events", q, err)
	}

	return count, nil
}

// DailyCounts returns the number of events per day ordered by date.
func (r *EventRepository) DailyCounts(ctx context.Context) ([]models.DailyCount, error) {
	const q = `
		SELECT
			date(t.created) AS date, count(*) AS value
		FROM
			bizdw_v6.lifecycle_events_trials t
		GROUP BY
			date(t.created)
		ORDER BY
			date
	`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, queryError("retrieve daily counts", q, err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			r.logger.Errorf("close rows: %v", err)
		}
	}()

	all := make([]models.DailyCount, 0)
	for rows.Next() {
		var c models.DailyCount
		if err = rows.Scan(&c.Date, &c.Value); err != nil {
			return nil, queryError("retrieve daily counts", q, err)
		}
		all = append(all, c)
	}

	// Check if there was an error during iteration over the rows.
	if err = rows.Err(); err != nil {
		return nil, queryError("retrieve daily counts", q, err)
	}

	return all, nil
}

// Ping verifies the connection to the database is alive.
func (r *EventRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the connection pool.
func (r *EventRepository) Close() error {
	return r.db.Close()
}

// queryError classifies a failed query. A missing relation is reported
// as ErrRelationMissing, other postgres errors carry their details.
func queryError(op, q string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UndefinedTable {
			return fmt.Errorf("%s: %w: %s", op, errs.ErrRelationMissing, pgErr.Message)
		}
		return fmt.Errorf("%s with query (%s): %w", op, formatQuery(q), formatPgError(pgErr))
	}
	return fmt.Errorf("%s with query (%s): %w", op, formatQuery(q), err)
}

// formatQuery removes tabs and replaces newlines with spaces in the given query string.
func formatQuery(q string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(q, "\t", ""), "\n", " "))
}

// formatPgError formats a PgError into a human-friendly error message.
func formatPgError(err *pgconn.PgError) error {
	return fmt.Errorf("SQL Error: %s, Detail: %s, Where: %s, Code: %s, SQLState: %s",
		err.Message,
		err.Detail,
		err.Where,
		err.Code,
		err.SQLState(),
	)
}
