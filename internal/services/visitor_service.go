package services

import (
	"context"
	"errors"
	"time"

	"rwstats/internal/models"
	"rwstats/internal/providers"
	"rwstats/internal/store"
	"rwstats/internal/structures"
)

type VisitorServiceInterface interface {
	RecordVisit(ctx context.Context, input *models.VisitInput) *models.VisitReceipt
	GetStats(ctx context.Context) (*models.VisitorStats, error)
	Summary(ctx context.Context) (*models.VisitorSummary, error)
	Range(ctx context.Context, days int) (*models.VisitorRange, error)
	CleanupOldData(ctx context.Context, retentionDays int) error
	BackfillHistory(ctx context.Context, days int) error
}

// VisitorService maintains the single shared visitor record. Its error
// policy is fail-silent: tracking is best-effort analytics and must
// never get in the way of serving a page, so RecordVisit logs failures
// and reports an uncounted visit instead of surfacing an error.
type VisitorService struct {
	records     store.RecordStore
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	historyDays int
	now         func() time.Time
}

func NewVisitorService(conf *structures.Config, records store.RecordStore, logger providers.Logger, metrics providers.MetricsProviderInterface) VisitorServiceInterface {
	return &VisitorService{
		records:     records,
		logger:      logger,
		metrics:     metrics,
		historyDays: conf.Visitor.BackfillDays,
		now:         time.Now,
	}
}

// GetStats fetches the shared record, lazily creating it with zeroed
// history on first access. An absent record is a normal case, not an
// error.
func (vs *VisitorService) GetStats(ctx context.Context) (*models.VisitorStats, error) {
	stats, err := vs.records.Get(ctx, models.VisitorStatsID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	stats = models.NewVisitorStats(vs.now(), vs.historyDays)
	if err := vs.records.Insert(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordVisit applies the three-signal dedup heuristic: the visit is
// new when the durable day marker is stale, the session day marker is
// stale, or a stored fingerprint no longer matches the freshly computed
// one. Page views count on every call regardless.
//
// The write is a full-record read-modify-write with no version check;
// two concurrent visits can race and undercount. Accepted.
func (vs *VisitorService) RecordVisit(ctx context.Context, input *models.VisitInput) *models.VisitReceipt {
	now := vs.now()
	today := models.DateKey(now)
	fingerprint := input.Device.Fingerprint(now)

	isNewVisitor := input.LastVisitDate != today ||
		input.SessionVisitDate != today ||
		(input.LastFingerprint != "" && input.LastFingerprint != fingerprint)

	stats, err := vs.GetStats(ctx)
	if err != nil {
		vs.logger.Errorf(providers.TypeApp, "Error getting visitor stats: %s", err)
		vs.metrics.IncVisits(providers.VisitFailed)
		return &models.VisitReceipt{}
	}

	stats.PageViews++
	if isNewVisitor {
		stats.TotalVisitors++
		stats.UniqueVisitors++
		if stats.DailyVisits == nil {
			stats.DailyVisits = make(map[string]int64)
		}
		stats.DailyVisits[today]++
	}
	stats.LastUpdated = now

	if err := vs.records.Update(ctx, stats); err != nil {
		vs.logger.Errorf(providers.TypeApp, "Error updating visitor stats: %s", err)
		vs.metrics.IncVisits(providers.VisitFailed)
		return &models.VisitReceipt{}
	}

	if !isNewVisitor {
		vs.metrics.IncVisits(providers.VisitRepeat)
		return &models.VisitReceipt{}
	}

	// Markers go out only after a successful write. A failed write
	// leaves the client's markers stale so the visit retries on the
	// next page load, at the cost of a possible re-count.
	vs.metrics.IncVisits(providers.VisitCounted)
	return &models.VisitReceipt{
		Counted: true,
		Markers: &models.VisitMarkers{
			LastVisitDate:    today,
			SessionVisitDate: today,
			Fingerprint:      fingerprint,
		},
	}
}

func (vs *VisitorService) Summary(ctx context.Context) (*models.VisitorSummary, error) {
	stats, err := vs.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	now := vs.now()
	return &models.VisitorSummary{
		TotalVisitors:   stats.TotalVisitors,
		TodayVisitors:   stats.TodayCount(now),
		WeeklyVisitors:  stats.WeeklyCount(now),
		MonthlyVisitors: stats.MonthlyCount(now),
		PageViews:       stats.PageViews,
	}, nil
}

func (vs *VisitorService) Range(ctx context.Context, days int) (*models.VisitorRange, error) {
	stats, err := vs.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	labels, counts := stats.RangeSeries(vs.now(), days)
	return &models.VisitorRange{Labels: labels, Counts: counts}, nil
}

// CleanupOldData prunes daily entries strictly older than retentionDays
// and writes back only when something was pruned. The running totals
// stay untouched: this is lossy compaction of history, not of counts.
func (vs *VisitorService) CleanupOldData(ctx context.Context, retentionDays int) error {
	stats, err := vs.GetStats(ctx)
	if err != nil {
		return err
	}

	now := vs.now()
	removed := stats.Prune(now, retentionDays)
	if removed == 0 {
		return nil
	}

	stats.LastUpdated = now
	if err := vs.records.Update(ctx, stats); err != nil {
		return err
	}
	vs.logger.Infof(providers.TypeApp, "Pruned %d daily visit entries older than %d days", removed, retentionDays)
	return nil
}

// BackfillHistory inserts zero counts for recent days missing from the
// record and writes back only when a day was added. Idempotent.
func (vs *VisitorService) BackfillHistory(ctx context.Context, days int) error {
	stats, err := vs.GetStats(ctx)
	if err != nil {
		return err
	}

	now := vs.now()
	added := stats.Backfill(now, days)
	if added == 0 {
		return nil
	}

	stats.LastUpdated = now
	return vs.records.Update(ctx, stats)
}
