package scheduler

import (
	"time"

	"github.com/krale/krale-storefront/internal/app/service"
	"github.com/krale/krale-storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// SessionScheduler evicts idle per-session state so year-long session
// cookies don't pin detail and cart stores in memory forever. Cart
// snapshots are persisted on every mutation, so eviction loses nothing:
// a returning shopper rehydrates from storage.
type SessionScheduler struct {
	cron     *cron.Cron
	registry *service.CartRegistry
	detail   *service.DetailService
	idleTTL  time.Duration
	schedule string
}

func NewSessionScheduler(
	registry *service.CartRegistry,
	detail *service.DetailService,
	idleTTL time.Duration,
	schedule string,
) *SessionScheduler {
	return &SessionScheduler{
		cron:     cron.New(),
		registry: registry,
		detail:   detail,
		idleTTL:  idleTTL,
		schedule: schedule,
	}
}

// Start schedules the periodic sweep.
func (s *SessionScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		logger.Error("Failed to add cron job for session sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Session scheduler started", map[string]interface{}{
		"schedule": s.schedule,
		"idle_ttl": s.idleTTL.String(),
	})
	return nil
}

// Stop halts the scheduler.
func (s *SessionScheduler) Stop() {
	logger.Info("Stopping session scheduler...")
	s.cron.Stop()
	logger.Info("Session scheduler stopped")
}

func (s *SessionScheduler) sweep() {
	carts := s.registry.EvictIdle(s.idleTTL)
	details := s.detail.EvictIdle(s.idleTTL)
	if carts == 0 && details == 0 {
		return
	}
	logger.Info("Idle sessions evicted", map[string]interface{}{
		"carts":   carts,
		"details": details,
	})
}
