package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"rwstats/internal/maintenance/interfaces"
	"rwstats/internal/providers"
	"rwstats/internal/services"
	"rwstats/internal/store"
	"rwstats/internal/structures"
)

// Scheduler runs the periodic visitor-record maintenance (prune old
// history, backfill missing days) and, when the file record store is
// active, the periodic snapshot persist.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	visitors services.VisitorServiceInterface
	records  store.RecordStore
	metrics  providers.MetricsProviderInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	maintenanceInterval := s.config.Visitor.MaintenanceInterval
	saveInterval := s.config.Database.SaveInterval

	s.cron.AddFunc(gron.Every(maintenanceInterval*time.Second), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.runMaintenance()
	})

	if snapshotter, ok := s.records.(store.Snapshotter); ok {
		s.cron.AddFunc(gron.Every(saveInterval*time.Second), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			if err := s.persist(snapshotter); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
				return
			}
			s.logger.Infof(providers.TypeApp, "Persisted records to %s", s.config.Database.FilePath)
		})
	}

	s.cron.Start()
}

func (s *Scheduler) runMaintenance() {
	ctx := context.Background()

	s.logger.Infof(providers.TypeApp, "Running visitor record maintenance...")
	if err := s.visitors.CleanupOldData(ctx, s.config.Visitor.RetentionDays); err != nil {
		s.logger.Errorf(providers.TypeApp, "Cleanup error: %s", err)
	}
	if err := s.visitors.BackfillHistory(ctx, s.config.Visitor.BackfillDays); err != nil {
		s.logger.Errorf(providers.TypeApp, "Backfill error: %s", err)
	}
	s.logger.Infof(providers.TypeApp, "Visitor record maintenance done")
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if snapshotter, ok := s.records.(store.Snapshotter); ok {
		return snapshotter.Restore()
	}
	return nil
}

func (s *Scheduler) Persist() error {
	snapshotter, ok := s.records.(store.Snapshotter)
	if !ok {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting records to file...")
	if err := s.persist(snapshotter); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) persist(snapshotter store.Snapshotter) error {
	start := time.Now()
	if err := snapshotter.Persist(); err != nil {
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, visitors services.VisitorServiceInterface, records store.RecordStore, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		visitors: visitors,
		records:  records,
		metrics:  metrics,
	}
}
