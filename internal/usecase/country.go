package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/numrent/activate/internal/adapter/provider"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/domain/repository"
)

// CountryUseCase maintains the mirrored country catalog.
type CountryUseCase struct {
	countries      repository.CountryRepository
	providerClient provider.Client
}

func NewCountryUseCase(countries repository.CountryRepository, providerClient provider.Client) *CountryUseCase {
	return &CountryUseCase{countries: countries, providerClient: providerClient}
}

func (u *CountryUseCase) List(ctx context.Context) ([]model.Country, error) {
	return u.countries.List(ctx)
}

func (u *CountryUseCase) Get(ctx context.Context, orgID int64) (*model.Country, error) {
	return u.countries.GetByOrgID(ctx, orgID)
}

// SetImage stores the flag image link shown by tenant frontends.
func (u *CountryUseCase) SetImage(ctx context.Context, orgID int64, image string) error {
	return u.countries.UpdateImage(ctx, orgID, image)
}

// Sync pulls the upstream country catalog and refreshes the mirror,
// inserting countries the upstream added and renaming existing ones.
// Stored image links survive the refresh. Returns the number of rows
// written.
func (u *CountryUseCase) Sync(ctx context.Context, bot *model.Bot) (int, error) {
	list, err := u.providerClient.GetCountries(ctx, tenantOf(bot))
	if err != nil {
		return 0, err
	}
	synced := 0
	for _, c := range list {
		err := u.countries.Upsert(ctx, &model.Country{
			OrgID:  c.ID,
			NameRu: c.NameRu,
			NameEn: c.NameEn,
		})
		if err != nil {
			return synced, err
		}
		synced++
	}
	return synced, nil
}

// UpdateFlags points every catalog image link at the given base URL,
// keyed by the upstream country id. Returns the number of rows touched.
func (u *CountryUseCase) UpdateFlags(ctx context.Context, baseURL string) (int, error) {
	list, err := u.countries.List(ctx)
	if err != nil {
		return 0, err
	}
	base := strings.TrimRight(baseURL, "/")
	updated := 0
	for _, c := range list {
		if err := u.countries.UpdateImage(ctx, c.OrgID, fmt.Sprintf("%s/%d.png", base, c.OrgID)); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
