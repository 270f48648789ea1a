package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the layout of dates accepted and stored by the analytics endpoints.
const DateLayout = "2006-01-02"

// DailyCount is a number of trial lifecycle events created on a single day.
type DailyCount struct {
	Date  time.Time
	Value int64
}

// Day truncates t to the UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type dailyCountJSON struct {
	Date  int64 `json:"date"`
	Value int64 `json:"value"`
}

// MarshalJSON renders the date as epoch milliseconds,
// the form the charting front end parses.
func (c DailyCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(dailyCountJSON{
		Date:  Day(c.Date).UnixMilli(),
		Value: c.Value,
	})
}

// UnmarshalJSON is a method that implements the json.Unmarshaler interface.
func (c *DailyCount) UnmarshalJSON(b []byte) error {
	var v dailyCountJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	c.Date = time.UnixMilli(v.Date).UTC()
	c.Value = v.Value
	return nil
}
