package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyCount_MarshalJSON(t *testing.T) {
	c := DailyCount{
		Date:  time.Date(2016, time.March, 2, 15, 4, 5, 0, time.UTC),
		Value: 42,
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	assert.JSONEq(t, `{"date":1456876800000,"value":42}`, string(b))
}

func TestDailyCount_UnmarshalJSON(t *testing.T) {
	var c DailyCount
	require.NoError(t, json.Unmarshal([]byte(`{"date":1456876800000,"value":7}`), &c))

	assert.Equal(t, time.Date(2016, time.March, 2, 0, 0, 0, 0, time.UTC), c.Date)
	assert.Equal(t, int64(7), c.Value)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2016, time.March, 2, 1, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2016, time.March, 2, 0, 0, 0, 0, time.UTC), Day(in))
}
