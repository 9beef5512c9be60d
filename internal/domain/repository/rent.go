package repository

import (
	"context"

	"github.com/numrent/activate/internal/domain/model"
)

// RentRepository persists rental orders.
type RentRepository interface {
	Create(ctx context.Context, rent *model.RentOrder) (*model.RentOrder, error)
	GetByOrgID(ctx context.Context, orgID int64) (*model.RentOrder, error)
	ListByUser(ctx context.Context, botID, userID int64) ([]model.RentOrder, error)

	// Mutate mirrors OrderRepository.Mutate for rental rows.
	Mutate(ctx context.Context, orgID int64, fn func(*model.RentOrder) (bool, error)) (*model.RentOrder, error)

	// UpdateCodes stores an SMS payload delivered by the provider webhook.
	UpdateCodes(ctx context.Context, orgID int64, codes string, codesID, codesDate int64) error

	// ExtendEndTime moves the lease deadline after a paid continuation.
	ExtendEndTime(ctx context.Context, orgID int64, endTime int64) error

	SelectExpired(ctx context.Context, now int64, limit int) ([]model.RentOrder, error)
}
