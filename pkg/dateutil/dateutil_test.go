package dateutil_test

import (
	"testing"
	"time"

	"github.com/limbo/hydrobuddy/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	now := time.Date(2024, time.April, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-04-05", dateutil.Key(now))

	parsed, err := dateutil.Parse("2024-04-05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC), parsed)

	_, err = dateutil.Parse("05-04-2024", time.UTC)
	assert.Error(t, err)
}

func TestComparisons(t *testing.T) {
	now := time.Date(2024, time.April, 15, 10, 0, 0, 0, time.UTC)
	assert.True(t, dateutil.IsToday("2024-04-15", now))
	assert.True(t, dateutil.IsPast("2024-04-14", now))
	assert.True(t, dateutil.IsPast("2023-12-31", now))
	assert.True(t, dateutil.IsFuture("2024-04-16", now))
	assert.False(t, dateutil.IsFuture("2024-04-15", now))
}

func TestLastNDays(t *testing.T) {
	now := time.Date(2024, time.March, 3, 8, 0, 0, 0, time.UTC)
	keys := dateutil.LastNDays(now, 7)
	assert.Equal(t, []string{
		"2024-02-26", "2024-02-27", "2024-02-28", "2024-02-29",
		"2024-03-01", "2024-03-02", "2024-03-03",
	}, keys)
	assert.Nil(t, dateutil.LastNDays(now, 0))
}

func TestMonthToDate(t *testing.T) {
	now := time.Date(2024, time.April, 3, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2024-04-01", "2024-04-02", "2024-04-03"}, dateutil.MonthToDate(now))

	first := time.Date(2024, time.May, 1, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, []string{"2024-05-01"}, dateutil.MonthToDate(first))
}

func TestDisplayHelpers(t *testing.T) {
	assert.Equal(t, "Mon", dateutil.DayName("2024-04-15"))
	assert.Equal(t, "Apr 15", dateutil.DisplayDate("2024-04-15"))
	assert.Equal(t, "", dateutil.DayName("bad"))
}
