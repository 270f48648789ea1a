package postgres

import (
	"context"
	"time"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/models"
)

// Disconnected stands in for the event repository when no DSN is configured.
// Every query returns ErrDBNotConnected.
type Disconnected struct{}

func (Disconnected) CountOn(context.Context, time.Time) (int64, error) {
	return 0, errs.ErrDBNotConnected
}

func (Disconnected) DailyCounts(context.Context) ([]models.DailyCount, error) {
	return nil, errs.ErrDBNotConnected
}

func (Disconnected) Ping(context.Context) error {
	return errs.ErrDBNotConnected
}

func (Disconnected) Close() error {
	return nil
}
