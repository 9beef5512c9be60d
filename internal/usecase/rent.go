package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/numrent/activate/internal/adapter/provider"
	"github.com/numrent/activate/internal/adapter/wallet"
	"github.com/numrent/activate/internal/cache"
	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/domain/repository"
)

// webhookPath is where the upstream pushes rental SMS payloads.
const webhookPath = "/api/rent/updateSmsRent"

// RentCatalogView is the rent catalog priced for one tenant: final
// prices in minor units with the tenant markup applied.
type RentCatalogView struct {
	Countries []int64
	Offers    map[string]int64
}

// RentUseCase drives time-boxed number leases. The upstream catalog is
// cached since it changes rarely and every create consults it.
type RentUseCase struct {
	rents          repository.RentRepository
	bots           repository.BotRepository
	providerClient provider.Client
	walletClient   wallet.Client
	catalog        cache.Cache
	catalogTTL     time.Duration
	webhookBase    string
	logger         *slog.Logger
	now            func() time.Time
}

// NewRentUseCase constructs RentUseCase.
func NewRentUseCase(
	rents repository.RentRepository,
	bots repository.BotRepository,
	providerClient provider.Client,
	walletClient wallet.Client,
	catalog cache.Cache,
	catalogTTL time.Duration,
	webhookBase string,
	logger *slog.Logger,
) *RentUseCase {
	return &RentUseCase{
		rents:          rents,
		bots:           bots,
		providerClient: providerClient,
		walletClient:   walletClient,
		catalog:        catalog,
		catalogTTL:     catalogTTL,
		webhookBase:    webhookBase,
		logger:         logger,
		now:            time.Now,
	}
}

func (u *RentUseCase) rawCatalog(ctx context.Context, bot *model.Bot, country int64, hours int) (*provider.RentCatalog, error) {
	key := fmt.Sprintf("rent:catalog:%d:%d:%d", bot.ID, country, hours)
	if raw, ok, err := u.catalog.Get(ctx, key); err == nil && ok {
		var cat provider.RentCatalog
		if err := json.Unmarshal([]byte(raw), &cat); err == nil {
			return &cat, nil
		}
	} else if err != nil {
		u.logger.Error("catalog cache read failed", slog.String("error", err.Error()))
	}

	cat, err := u.providerClient.GetRentServicesAndCountries(ctx, tenantOf(bot), country, hours)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(cat); err == nil {
		if err := u.catalog.Set(ctx, key, string(raw), u.catalogTTL); err != nil {
			u.logger.Error("catalog cache write failed", slog.String("error", err.Error()))
		}
	}
	return cat, nil
}

func rentCost(bot *model.Bot, svc provider.RentService) float64 {
	if bot.Retail && svc.RetailCost > 0 {
		return svc.RetailCost
	}
	return svc.Cost
}

// Catalog returns the services rentable in a country, priced for the
// tenant.
func (u *RentUseCase) Catalog(ctx context.Context, bot *model.Bot, country int64, hours int) (*RentCatalogView, error) {
	cat, err := u.rawCatalog(ctx, bot, country, hours)
	if err != nil {
		return nil, err
	}
	view := &RentCatalogView{
		Countries: cat.Countries,
		Offers:    make(map[string]int64, len(cat.Services)),
	}
	for code, svc := range cat.Services {
		if bot.Blacklisted(code) {
			continue
		}
		view.Offers[code] = FinalPrice(Minor(rentCost(bot, svc)), bot.Percent)
	}
	return view, nil
}

// Create leases a rental number: price from the catalog, debit, then
// persist. Any failure after the lease pushes a cancel upstream so the
// number is released.
func (u *RentUseCase) Create(ctx context.Context, bot *model.Bot, user *wallet.UserData, service string, country int64, hours int) (*model.RentOrder, error) {
	if service == "" || bot.Blacklisted(service) {
		return nil, domainErrors.ErrNoService
	}

	cat, err := u.rawCatalog(ctx, bot, country, hours)
	if err != nil {
		return nil, err
	}
	svc, ok := cat.Services[service]
	if !ok {
		return nil, domainErrors.ErrNoService
	}
	start := Minor(rentCost(bot, svc))
	final := FinalPrice(start, bot.Percent)
	if final <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	if user.Money < final {
		return nil, domainErrors.ErrInsufficientFunds
	}

	t := tenantOf(bot)
	phone, err := u.providerClient.GetRentNumber(ctx, t, service, country, hours, u.webhookBase+webhookPath)
	if err != nil {
		return nil, err
	}

	keys := keysOf(bot)
	comment := fmt.Sprintf("rent %s %s %dh", service, phone.Number, hours)
	if err := u.walletClient.SubtractBalance(ctx, keys, user, final, comment); err != nil {
		u.releaseRent(ctx, t, phone.ID)
		return nil, err
	}

	rent := &model.RentOrder{
		BotID:      bot.ID,
		UserID:     user.TelegramID,
		CountryID:  country,
		Service:    service,
		OrgID:      phone.ID,
		Phone:      phone.Number,
		Status:     model.OrderStatusWaitCode,
		StartTime:  u.now().Unix(),
		EndTime:    phone.EndDate.Unix(),
		PriceStart: start,
		PriceFinal: final,
	}
	created, err := u.rents.Create(ctx, rent)
	if err != nil {
		if rerr := u.walletClient.AddBalance(ctx, keys, user, final, "refund "+comment); rerr != nil {
			u.logger.Error("rent refund after persist failure failed",
				slog.Int64("rent_id", phone.ID), slog.String("error", rerr.Error()))
		}
		u.releaseRent(ctx, t, phone.ID)
		return nil, err
	}
	return created, nil
}

// pushRentStatus mirrors pushStatus for the rent endpoints.
func (u *RentUseCase) pushRentStatus(ctx context.Context, t provider.Tenant, rentID int64, access provider.RentAccess) error {
	err := u.providerClient.SetRentStatus(ctx, t, rentID, access)
	if err == nil {
		return nil
	}
	var perr *provider.Error
	if errors.As(err, &perr) && perr.Terminal() {
		return nil
	}
	return err
}

func (u *RentUseCase) releaseRent(ctx context.Context, t provider.Tenant, rentID int64) {
	if err := u.pushRentStatus(ctx, t, rentID, provider.RentAccessCancel); err != nil {
		u.logger.Error("release rent lease failed",
			slog.Int64("rent_id", rentID), slog.String("error", err.Error()))
	}
}

// Get returns a single rent row.
func (u *RentUseCase) Get(ctx context.Context, orgID int64) (*model.RentOrder, error) {
	return u.rents.GetByOrgID(ctx, orgID)
}

// ListByUser returns the user's rentals in a tenant.
func (u *RentUseCase) ListByUser(ctx context.Context, botID, userID int64) ([]model.RentOrder, error) {
	return u.rents.ListByUser(ctx, botID, userID)
}

// Cancel aborts a lease that received no SMS and refunds the frozen
// price. A lease that delivered anything can only be finished.
func (u *RentUseCase) Cancel(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.RentOrder, error) {
	t := tenantOf(bot)
	keys := keysOf(bot)
	return u.rents.Mutate(ctx, orgID, func(r *model.RentOrder) (bool, error) {
		if r.Status.Terminal() || r.HasCodes() {
			return false, domainErrors.ErrInvalidTransition
		}
		if err := u.pushRentStatus(ctx, t, orgID, provider.RentAccessCancel); err != nil {
			return false, err
		}
		comment := fmt.Sprintf("refund rent %s %s", r.Service, r.Phone)
		if err := u.walletClient.AddBalance(ctx, keys, user, r.PriceFinal, comment); err != nil {
			return false, err
		}
		r.Status = model.OrderStatusCancel
		return true, nil
	})
}

// Confirm closes a lease early at the user's request. No refund: the
// lease was live.
func (u *RentUseCase) Confirm(ctx context.Context, bot *model.Bot, orgID int64) (*model.RentOrder, error) {
	t := tenantOf(bot)
	return u.rents.Mutate(ctx, orgID, func(r *model.RentOrder) (bool, error) {
		if r.Status.Terminal() {
			return false, domainErrors.ErrInvalidTransition
		}
		if err := u.pushRentStatus(ctx, t, orgID, provider.RentAccessFinish); err != nil {
			return false, err
		}
		r.Status = model.OrderStatusFinish
		return true, nil
	})
}

// ContinuePrice quotes the tenant-marked-up price of extending a lease.
func (u *RentUseCase) ContinuePrice(ctx context.Context, bot *model.Bot, orgID int64, hours int) (int64, error) {
	quote, err := u.providerClient.GetContinueRentPrice(ctx, tenantOf(bot), orgID, hours)
	if err != nil {
		return 0, err
	}
	return FinalPrice(Minor(quote), bot.Percent), nil
}

// Continue extends a lease: quote, debit, then extend upstream. A failed
// extension refunds the debit.
func (u *RentUseCase) Continue(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64, hours int) (*model.RentOrder, error) {
	price, err := u.ContinuePrice(ctx, bot, orgID, hours)
	if err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	if user.Money < price {
		return nil, domainErrors.ErrInsufficientFunds
	}

	t := tenantOf(bot)
	keys := keysOf(bot)
	return u.rents.Mutate(ctx, orgID, func(r *model.RentOrder) (bool, error) {
		if r.Status.Terminal() {
			return false, domainErrors.ErrInvalidTransition
		}
		comment := fmt.Sprintf("continue rent %s %s %dh", r.Service, r.Phone, hours)
		if err := u.walletClient.SubtractBalance(ctx, keys, user, price, comment); err != nil {
			return false, err
		}
		phone, err := u.providerClient.ContinueRentNumber(ctx, t, orgID, hours)
		if err != nil {
			if rerr := u.walletClient.AddBalance(ctx, keys, user, price, "refund "+comment); rerr != nil {
				u.logger.Error("refund after failed continuation failed",
					slog.Int64("rent_id", orgID), slog.String("error", rerr.Error()))
			}
			return false, err
		}
		r.EndTime = phone.EndDate.Unix()
		return true, nil
	})
}

// UpdateSMS stores a payload pushed by the provider webhook. Repeated
// deliveries of the same text are collapsed.
func (u *RentUseCase) UpdateSMS(ctx context.Context, rentID int64, text string, smsID int64, date time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	_, err := u.rents.Mutate(ctx, rentID, func(r *model.RentOrder) (bool, error) {
		merged, changed, decodeErr := appendCode(r.Codes, text)
		if decodeErr != nil {
			u.logger.Error("stored codes are corrupt, starting a fresh list",
				slog.Int64("rent_id", r.OrgID), slog.String("error", decodeErr.Error()))
		}
		if !changed {
			return false, nil
		}
		r.Codes = &merged
		id := smsID
		r.CodesID = &id
		ts := date.Unix()
		r.CodesDate = &ts
		if !r.Status.Terminal() {
			r.Status = model.OrderStatusOK
		}
		return true, nil
	})
	return err
}

// SelectExpired returns a batch of leases past their end date.
func (u *RentUseCase) SelectExpired(ctx context.Context, limit int) ([]model.RentOrder, error) {
	return u.rents.SelectExpired(ctx, u.now().Unix(), limit)
}

// FinalizeExpired closes a lease whose paid window ran out. The lease
// was live for its whole duration, so it finishes without a refund
// whether or not SMS arrived.
func (u *RentUseCase) FinalizeExpired(ctx context.Context, r model.RentOrder) error {
	bot, err := u.bots.GetByID(ctx, r.BotID)
	if err != nil {
		return fmt.Errorf("load tenant %d: %w", r.BotID, err)
	}
	t := tenantOf(bot)
	_, err = u.rents.Mutate(ctx, r.OrgID, func(row *model.RentOrder) (bool, error) {
		if row.Status.Terminal() {
			return false, nil
		}
		if err := u.pushRentStatus(ctx, t, row.OrgID, provider.RentAccessFinish); err != nil {
			return false, err
		}
		row.Status = model.OrderStatusFinish
		return true, nil
	})
	return err
}
