package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/metrics"
	"go.uber.org/zap"
)

const (
	defaultSweepInterval = 1 * time.Hour
	defaultSweepGrace    = 24 * time.Hour
)

// OrphanSweeper cancels tenants that never got an owner membership, left behind by
// interrupted two-step writes from older clients.
type OrphanSweeper struct {
	tenants domain.TenantStore
	logger  *zap.Logger
	metrics *metrics.Metrics

	interval time.Duration
	grace    time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewOrphanSweeper(ts domain.TenantStore, logger *zap.Logger) *OrphanSweeper {
	return &OrphanSweeper{
		tenants:  ts,
		logger:   logger,
		interval: defaultSweepInterval,
		grace:    defaultSweepGrace,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

func (s *OrphanSweeper) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

func (s *OrphanSweeper) SetGrace(d time.Duration) {
	if d > 0 {
		s.grace = d
	}
}

func (s *OrphanSweeper) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Start runs the sweeper on a periodic schedule in a background goroutine.
func (s *OrphanSweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("orphan tenant sweeper started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.Sweep(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("orphan tenant sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper.
func (s *OrphanSweeper) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Sweep cancels every active tenant without an owner that is older than the grace period.
// It returns the number of tenants cancelled.
func (s *OrphanSweeper) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.grace)
	orphans, err := s.tenants.ListWithoutOwner(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to list orphan tenants", zap.Error(err))
		return 0
	}

	cancelled := 0
	for _, t := range orphans {
		if err := s.tenants.UpdateStatus(ctx, t.ID, domain.TenantStatusCancelled); err != nil {
			s.logger.Warn("failed to cancel orphan tenant",
				zap.String("tenant_id", t.ID.String()),
				zap.Error(err))
			continue
		}
		cancelled++
		s.metrics.OrphanCancelled()
		s.logger.Info("cancelled orphan tenant",
			zap.String("tenant_id", t.ID.String()),
			zap.String("slug", t.Slug),
			zap.Time("created_at", t.CreatedAt))
	}
	return cancelled
}
