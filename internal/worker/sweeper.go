package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/numrent/activate/internal/domain/model"
)

// ExpiryFacade exposes the subset of application functionality required by the sweeper.
type ExpiryFacade interface {
	ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error)
	FinalizeOrder(ctx context.Context, order model.Order) error
	ExpiredRents(ctx context.Context, limit int) ([]model.RentOrder, error)
	FinalizeRent(ctx context.Context, rent model.RentOrder) error
}

// job carries exactly one expired row of either kind.
type job struct {
	order *model.Order
	rent  *model.RentOrder
}

// Sweeper finalizes orders and leases past their deadline concurrently.
// Batches use row locks that skip contended rows, so several instances
// can sweep the same database.
type Sweeper struct {
	facade       ExpiryFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSweeper constructs the expiry worker pool.
func NewSweeper(facade ExpiryFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Sweeper{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan job, batchSize*workers),
	}
}

// Start launches background processing.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *Sweeper) fetchAndDispatch(ctx context.Context) {
	orders, err := s.facade.ExpiredOrders(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch expired orders failed", slog.String("error", err.Error()))
	}
	for i := range orders {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- job{order: &orders[i]}:
		}
	}

	rents, err := s.facade.ExpiredRents(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch expired rents failed", slog.String("error", err.Error()))
	}
	for i := range rents {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- job{rent: &rents[i]}:
		}
	}
}

func (s *Sweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-s.jobs:
			if !ok {
				return
			}
			s.handle(ctx, j)
		}
	}
}

func (s *Sweeper) handle(ctx context.Context, j job) {
	switch {
	case j.order != nil:
		if err := s.facade.FinalizeOrder(ctx, *j.order); err != nil {
			s.logger.Error("finalize expired order failed",
				slog.Int64("org_id", j.order.OrgID), slog.String("error", err.Error()))
		}
	case j.rent != nil:
		if err := s.facade.FinalizeRent(ctx, *j.rent); err != nil {
			s.logger.Error("finalize expired rent failed",
				slog.Int64("rent_id", j.rent.OrgID), slog.String("error", err.Error()))
		}
	}
}
