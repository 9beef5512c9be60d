package repository

import (
	"context"

	"github.com/numrent/activate/internal/domain/model"
)

// OrderRepository persists activation orders. Rows are never deleted;
// terminal orders remain as an audit trail.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByOrgID(ctx context.Context, orgID int64) (*model.Order, error)
	ListByUser(ctx context.Context, botID, userID int64) ([]model.Order, error)

	// Mutate runs fn on the order row held under an exclusive lock and
	// writes the mutated row back when fn returns true. The lock scope
	// brackets any external call fn performs, so the persisted state
	// always matches what was actually told to the wallet or provider.
	Mutate(ctx context.Context, orgID int64, fn func(*model.Order) (bool, error)) (*model.Order, error)

	// ForceCancelWaiting claims a WAIT_CODE order as CANCEL, touching
	// nothing else. Reports whether the row was claimed; a false return
	// means the order moved on and the caller must re-read it.
	ForceCancelWaiting(ctx context.Context, orgID int64) (bool, error)

	// SelectExpired returns non-terminal orders past their end_time,
	// skipping rows locked by concurrent sweepers.
	SelectExpired(ctx context.Context, now int64, limit int) ([]model.Order, error)
}
