package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday.
var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2025-09-01", DateKey(testNow))

	// Local times normalize to the UTC calendar day.
	jakarta := time.FixedZone("WIB", 7*3600)
	assert.Equal(t, "2025-08-31", DateKey(time.Date(2025, 9, 1, 3, 0, 0, 0, jakarta)))
}

func TestNewVisitorStats_SeedsHistory(t *testing.T) {
	stats := NewVisitorStats(testNow, 30)

	require.Len(t, stats.DailyVisits, 30)
	assert.Equal(t, VisitorStatsID, stats.ID)
	assert.Zero(t, stats.TotalVisitors)
	assert.Zero(t, stats.PageViews)
	assert.Contains(t, stats.DailyVisits, "2025-09-01")
	assert.Contains(t, stats.DailyVisits, "2025-08-03")
	assert.NotContains(t, stats.DailyVisits, "2025-08-02")
}

func TestClone_Isolated(t *testing.T) {
	stats := NewVisitorStats(testNow, 3)
	cp := stats.Clone()
	cp.DailyVisits["2025-09-01"] = 99

	assert.Zero(t, stats.DailyVisits["2025-09-01"])
}

func TestTodayCount(t *testing.T) {
	stats := NewVisitorStats(testNow, 7)
	stats.DailyVisits["2025-09-01"] = 5

	assert.Equal(t, int64(5), stats.TodayCount(testNow))
	assert.Equal(t, int64(0), stats.TodayCount(testNow.AddDate(0, 0, 1)))
}

func TestWeeklyCount_LastSevenDaysOnly(t *testing.T) {
	stats := &VisitorStats{DailyVisits: map[string]int64{
		"2025-09-01": 1,
		"2025-08-31": 2,
		"2025-08-26": 4, // 6 days back, included
		"2025-08-25": 8, // 7 days back, excluded
	}}

	assert.Equal(t, int64(7), stats.WeeklyCount(testNow))
}

func TestMonthlyCount_FromFirstOfMonth(t *testing.T) {
	now := time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC)
	stats := &VisitorStats{DailyVisits: map[string]int64{
		"2025-09-01": 1,
		"2025-09-02": 2,
		"2025-09-03": 3,
		"2025-08-31": 100,
	}}

	assert.Equal(t, int64(6), stats.MonthlyCount(now))
}

func TestRangeSeries_OldestFirstWithLabels(t *testing.T) {
	stats := &VisitorStats{DailyVisits: map[string]int64{
		"2025-08-30": 3,
		"2025-09-01": 7,
	}}

	labels, counts := stats.RangeSeries(testNow, 3)

	require.Len(t, labels, 3)
	assert.Equal(t, []string{"Sab, 30 Agu", "Min, 31 Agu", "Sen, 1 Sep"}, labels)
	assert.Equal(t, []int64{3, 0, 7}, counts)
}

func TestPrune_RemovesStrictlyOlderOnly(t *testing.T) {
	cutoff := DateKey(testNow.AddDate(0, 0, -365))
	stats := &VisitorStats{
		TotalVisitors: 42,
		DailyVisits: map[string]int64{
			"2023-01-01": 10,
			cutoff:       5,
			"2025-09-01": 1,
		},
	}

	removed := stats.Prune(testNow, 365)

	assert.Equal(t, 1, removed)
	assert.NotContains(t, stats.DailyVisits, "2023-01-01")
	assert.Contains(t, stats.DailyVisits, cutoff)
	assert.Equal(t, int64(42), stats.TotalVisitors)
}

func TestBackfill_FillsMissingKeepsExisting(t *testing.T) {
	stats := &VisitorStats{DailyVisits: map[string]int64{
		"2025-09-01": 9,
	}}

	added := stats.Backfill(testNow, 30)

	assert.Equal(t, 29, added)
	assert.Len(t, stats.DailyVisits, 30)
	assert.Equal(t, int64(9), stats.DailyVisits["2025-09-01"])

	// Idempotent.
	assert.Zero(t, stats.Backfill(testNow, 30))
}
