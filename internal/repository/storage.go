// Package repository provides the interfaces of storage.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/KretovDmitry/squarehouse/internal/config"
	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/logger"
	"github.com/KretovDmitry/squarehouse/internal/models"
	"github.com/KretovDmitry/squarehouse/internal/repository/postgres"
	"github.com/KretovDmitry/squarehouse/migrations"
	sqldblogger "github.com/simukti/sqldb-logger"
)

//go:generate mockgen -destination=mock/mock_storage.go -package=mock . EventStorage

// MappingStorage holds short key to long URL mappings.
type MappingStorage interface {
	// Put inserts the mapping or overwrites the one under the same short key.
	Put(ctx context.Context, m *models.Mapping) error

	// Get retrieves a mapping by its short key.
	// It returns errs.ErrNotFound when the key is unknown.
	Get(ctx context.Context, shortKey string) (*models.Mapping, error)
}

// EventStorage is the analytics database of trial lifecycle events.
type EventStorage interface {
	// CountOn returns the number of events created on the given day.
	CountOn(ctx context.Context, day time.Time) (int64, error)

	// DailyCounts returns the number of events per day ordered by date.
	DailyCounts(ctx context.Context) ([]models.DailyCount, error)

	// Ping checks the health of the storage.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}

// DatasetStorage is a date-indexed table of daily counts held in memory.
type DatasetStorage interface {
	// Replace swaps the whole table for the given rows.
	Replace(rows []models.DailyCount)

	// Slice returns rows dated between start and end inclusive.
	Slice(start, end time.Time) ([]models.DailyCount, error)
}

// NewEventStore returns the postgres event repository when a DSN is
// configured, otherwise a repository that reports it is not connected.
func NewEventStore(ctx context.Context, config *config.Config, logger logger.Logger) (EventStorage, error) {
	// Check for dependencies that can lead to panic.
	if config == nil {
		return nil, fmt.Errorf("%w: config", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	if config.DSN == "" {
		logger.Info("DSN is not provided, analytics endpoints are disabled")
		return postgres.Disconnected{}, nil
	}

	// Connect to the postgres.
	db, err := sql.Open("pgx", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}

	// Log every query to the database.
	db = sqldblogger.OpenDriver(config.DSN, db.Driver(), logger)

	// Check connectivity and DSN correctness.
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if config.RunMigrations {
		if err = migrations.Up(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate DB: %w", err)
		}
		logger.Info("database migrations applied")
	}

	return postgres.NewEventRepository(db, logger)
}
