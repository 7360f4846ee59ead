package scheduler

import (
	"context"
	"time"

	"github.com/krale/krale-storefront/internal/app/service"
	"github.com/krale/krale-storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CatalogScheduler keeps the catalog snapshot warm so the product grid
// renders without waiting on the commerce backend.
type CatalogScheduler struct {
	cron     *cron.Cron
	catalog  service.CatalogService
	schedule string
}

func NewCatalogScheduler(catalog service.CatalogService, schedule string) *CatalogScheduler {
	return &CatalogScheduler{
		cron:     cron.New(),
		catalog:  catalog,
		schedule: schedule,
	}
}

// Start schedules the periodic refresh and runs one warm-up immediately.
func (s *CatalogScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.refresh)
	if err != nil {
		logger.Error("Failed to add cron job for catalog refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Catalog scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})

	go s.refresh()
	return nil
}

// Stop halts the scheduler.
func (s *CatalogScheduler) Stop() {
	logger.Info("Stopping catalog scheduler...")
	s.cron.Stop()
	logger.Info("Catalog scheduler stopped")
}

func (s *CatalogScheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.catalog.Warm(ctx); err != nil {
		logger.Error("Scheduled catalog refresh failed", err)
		return
	}
	logger.Info("Scheduled catalog refresh completed")
}
