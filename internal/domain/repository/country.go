package repository

import (
	"context"

	"github.com/numrent/activate/internal/domain/model"
)

// CountryRepository maintains the mirrored country catalog.
type CountryRepository interface {
	GetByOrgID(ctx context.Context, orgID int64) (*model.Country, error)
	List(ctx context.Context) ([]model.Country, error)
	UpdateImage(ctx context.Context, orgID int64, image string) error

	// Upsert inserts or refreshes a catalog row keyed by the upstream
	// country id. The stored image link is preserved on refresh.
	Upsert(ctx context.Context, country *model.Country) error
}
