package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/numrent/activate/internal/domain/model"
	testhelpers "github.com/numrent/activate/internal/test"
)

func TestNewSweeperDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := NewSweeper(&testhelpers.SweepFacadeStub{}, time.Second, 0, 0, logger)
	if sweeper.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", sweeper.batchSize)
	}
	if sweeper.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", sweeper.workers)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSweeperFinalizesExpiredOrders(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SweepFacadeStub{
		Orders: [][]model.Order{{{ID: 1, OrgID: 500}}},
	}
	sweeper := NewSweeper(facade, 10*time.Millisecond, 2, 2, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	waitFor(t, 500*time.Millisecond, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.FinalizedOrders) > 0
	})
	sweeper.Stop()

	facade.Lock()
	defer facade.Unlock()
	if facade.FinalizedOrders[0].OrgID != 500 {
		t.Fatalf("unexpected finalized order: %+v", facade.FinalizedOrders[0])
	}
}

func TestSweeperFinalizesExpiredRents(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SweepFacadeStub{
		Rents: [][]model.RentOrder{{{ID: 1, OrgID: 900}}},
	}
	sweeper := NewSweeper(facade, 10*time.Millisecond, 2, 2, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	waitFor(t, 500*time.Millisecond, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.FinalizedRents) > 0
	})
	sweeper.Stop()

	facade.Lock()
	defer facade.Unlock()
	if facade.FinalizedRents[0].OrgID != 900 {
		t.Fatalf("unexpected finalized rent: %+v", facade.FinalizedRents[0])
	}
}

func TestSweeperIsolatesFinalizeErrors(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SweepFacadeStub{
		Orders: [][]model.Order{{{ID: 1, OrgID: 500}, {ID: 2, OrgID: 501}}},
		FinalizeOrderFn: func(ctx context.Context, order model.Order) error {
			if order.OrgID == 500 {
				return errors.New("wallet down")
			}
			return nil
		},
	}
	sweeper := NewSweeper(facade, 10*time.Millisecond, 2, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	waitFor(t, 500*time.Millisecond, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.FinalizedOrders) >= 2
	})
	sweeper.Stop()
}

func TestSweeperStopWithoutStart(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := NewSweeper(&testhelpers.SweepFacadeStub{}, time.Second, 1, 1, logger)
	sweeper.Stop()
}
