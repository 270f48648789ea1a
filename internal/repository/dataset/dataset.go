// Package dataset holds the date-indexed table of daily event counts
// loaded from the analytics database.
package dataset

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/models"
	"github.com/KretovDmitry/squarehouse/internal/repository"
)

var _ repository.DatasetStorage = (*Dataset)(nil)

// Dataset is a process-local table of daily counts sorted by date.
// It is safe for concurrent use.
type Dataset struct {
	mu     sync.RWMutex
	rows   []models.DailyCount
	loaded bool
}

// New returns an empty dataset which has not been loaded yet.
func New() *Dataset {
	return &Dataset{}
}

// Replace swaps the whole table. Dates are truncated to UTC days
// and rows are kept ordered by date.
func (d *Dataset) Replace(rows []models.DailyCount) {
	table := make([]models.DailyCount, len(rows))
	for i, r := range rows {
		table[i] = models.DailyCount{Date: models.Day(r.Date), Value: r.Value}
	}
	slices.SortStableFunc(table, func(a, b models.DailyCount) int {
		return a.Date.Compare(b.Date)
	})

	d.mu.Lock()
	d.rows = table
	d.loaded = true
	d.mu.Unlock()
}

// Slice returns a copy of the rows dated between start and end,
// both ends inclusive. Only the calendar date of the bounds matters.
// It fails with ErrDatasetNotLoaded until the first Replace.
func (d *Dataset) Slice(start, end time.Time) ([]models.DailyCount, error) {
	start, end = models.Day(start), models.Day(end)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.loaded {
		return nil, errs.ErrDatasetNotLoaded
	}

	if start.After(end) {
		return []models.DailyCount{}, nil
	}

	n := len(d.rows)
	lo := sort.Search(n, func(i int) bool { return !d.rows[i].Date.Before(start) })
	hi := sort.Search(n, func(i int) bool { return d.rows[i].Date.After(end) })

	subset := make([]models.DailyCount, hi-lo)
	copy(subset, d.rows[lo:hi])
	return subset, nil
}

// Loaded reports whether the table was loaded at least once.
func (d *Dataset) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Len reports the number of rows in the table.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rows)
}
