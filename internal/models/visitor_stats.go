package models

import (
	"fmt"
	"time"
)

// VisitorStatsID is the key of the single shared visitor record.
const VisitorStatsID = "stats"

// VisitorStats is the aggregate visitor record. DailyVisits maps
// YYYY-MM-DD (UTC calendar day) to the number of deduplicated visits
// counted on that day. TotalVisitors is the running total of counted
// visits since inception and is never adjusted by history pruning.
type VisitorStats struct {
	ID             string           `json:"id" db:"id"`
	TotalVisitors  int64            `json:"totalVisitors" db:"total_visitors"`
	UniqueVisitors int64            `json:"uniqueVisitors" db:"unique_visitors"`
	PageViews      int64            `json:"pageViews" db:"page_views"`
	DailyVisits    map[string]int64 `json:"dailyVisits" db:"-"`
	LastUpdated    time.Time        `json:"lastUpdated" db:"last_updated"`
}

// DateKey formats a time as the calendar-day key used in DailyVisits.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NewVisitorStats returns a zeroed record with historyDays days of
// zero-count history ending at now.
func NewVisitorStats(now time.Time, historyDays int) *VisitorStats {
	daily := make(map[string]int64, historyDays)
	for i := 0; i < historyDays; i++ {
		daily[DateKey(now.AddDate(0, 0, -i))] = 0
	}
	return &VisitorStats{
		ID:          VisitorStatsID,
		DailyVisits: daily,
		LastUpdated: now,
	}
}

func (vs *VisitorStats) Clone() *VisitorStats {
	cp := *vs
	cp.DailyVisits = make(map[string]int64, len(vs.DailyVisits))
	for k, v := range vs.DailyVisits {
		cp.DailyVisits[k] = v
	}
	return &cp
}

// TodayCount returns the counted visits for the current calendar day.
func (vs *VisitorStats) TodayCount(now time.Time) int64 {
	return vs.DailyVisits[DateKey(now)]
}

// WeeklyCount sums the last 7 calendar days, today included.
func (vs *VisitorStats) WeeklyCount(now time.Time) int64 {
	var sum int64
	for i := 0; i < 7; i++ {
		sum += vs.DailyVisits[DateKey(now.AddDate(0, 0, -i))]
	}
	return sum
}

// MonthlyCount sums every day from the first of the current month
// through today.
func (vs *VisitorStats) MonthlyCount(now time.Time) int64 {
	var sum int64
	u := now.UTC()
	for d := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC); !d.After(u); d = d.AddDate(0, 0, 1) {
		sum += vs.DailyVisits[DateKey(d)]
	}
	return sum
}

// RangeSeries returns human-readable labels and counts for the last
// days calendar days, oldest first. Missing days count as zero.
func (vs *VisitorStats) RangeSeries(now time.Time, days int) ([]string, []int64) {
	labels := make([]string, 0, days)
	counts := make([]int64, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := now.UTC().AddDate(0, 0, -i)
		labels = append(labels, dayLabel(d))
		counts = append(counts, vs.DailyVisits[DateKey(d)])
	}
	return labels, counts
}

// Prune removes DailyVisits entries strictly older than retentionDays
// before now and reports how many were removed. TotalVisitors is left
// untouched: pruning compacts history, not the running total.
func (vs *VisitorStats) Prune(now time.Time, retentionDays int) int {
	cutoff := DateKey(now.AddDate(0, 0, -retentionDays))
	removed := 0
	for date := range vs.DailyVisits {
		if date < cutoff {
			delete(vs.DailyVisits, date)
			removed++
		}
	}
	return removed
}

// Backfill inserts a zero count for each of the last days calendar days
// missing from DailyVisits and reports how many were added. Existing
// values are never overwritten.
func (vs *VisitorStats) Backfill(now time.Time, days int) int {
	if vs.DailyVisits == nil {
		vs.DailyVisits = make(map[string]int64, days)
	}
	added := 0
	for i := 0; i < days; i++ {
		key := DateKey(now.AddDate(0, 0, -i))
		if _, ok := vs.DailyVisits[key]; !ok {
			vs.DailyVisits[key] = 0
			added++
		}
	}
	return added
}

// VisitorSummary is the dashboard projection over one snapshot.
type VisitorSummary struct {
	TotalVisitors   int64 `json:"totalVisitors"`
	TodayVisitors   int64 `json:"todayVisitors"`
	WeeklyVisitors  int64 `json:"weeklyVisitors"`
	MonthlyVisitors int64 `json:"monthlyVisitors"`
	PageViews       int64 `json:"pageViews"`
}

// VisitorRange is the chart projection: labels and counts for a day
// range, oldest first.
type VisitorRange struct {
	Labels []string `json:"labels"`
	Counts []int64  `json:"data"`
}

// Indonesian short names, matching the public site's id-ID labels.
var (
	shortWeekdays = [7]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}
	shortMonths   = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
)

func dayLabel(d time.Time) string {
	return fmt.Sprintf("%s, %d %s", shortWeekdays[d.Weekday()], d.Day(), shortMonths[d.Month()-1])
}
