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
	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/domain/repository"
)

// OrderUseCase drives the activation order lifecycle: leasing numbers
// upstream, moving the user's wallet money, and reconciling local rows
// against upstream state. The wallet is the source of truth for money;
// the local row is the source of truth for what the user was billed for.
type OrderUseCase struct {
	orders         repository.OrderRepository
	bots           repository.BotRepository
	providerClient provider.Client
	walletClient   wallet.Client
	ttl            time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	bots repository.BotRepository,
	providerClient provider.Client,
	walletClient wallet.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:         orders,
		bots:           bots,
		providerClient: providerClient,
		walletClient:   walletClient,
		ttl:            ttl,
		logger:         logger,
		now:            time.Now,
	}
}

func tenantOf(bot *model.Bot) provider.Tenant {
	return provider.Tenant{APIKey: bot.APIKey, BaseURL: bot.ResourceLink}
}

func keysOf(bot *model.Bot) wallet.Keys {
	return wallet.Keys{PublicKey: bot.PublicKey, PrivateKey: bot.PrivateKey}
}

// appendCode merges a new code into the stored JSON list. Reports false
// when the code is already present. A blob that fails to decode is
// replaced by a fresh list and the decode error is returned alongside
// so the caller can log the loss.
func appendCode(existing *string, code string) (string, bool, error) {
	var list []string
	var decodeErr error
	if existing != nil && *existing != "" {
		if err := json.Unmarshal([]byte(*existing), &list); err != nil {
			decodeErr = err
			list = nil
		}
	}
	for _, c := range list {
		if c == code {
			return "", false, nil
		}
	}
	list = append(list, code)
	raw, _ := json.Marshal(list)
	return string(raw), true, decodeErr
}

// pushStatus sends a transition upstream, treating replies showing the
// upstream already dropped the activation as success: the local row is
// then the only record left and must still be resolved.
func (u *OrderUseCase) pushStatus(ctx context.Context, t provider.Tenant, orgID int64, access provider.Access) error {
	err := u.providerClient.SetStatus(ctx, t, orgID, access)
	if err == nil {
		return nil
	}
	var perr *provider.Error
	if errors.As(err, &perr) && perr.Terminal() {
		return nil
	}
	return err
}

// Create reserves a number upstream and debits the frozen final price.
// Any failure after the lease is compensated by cancelling upstream, so
// a user is never charged for a number they cannot see.
func (u *OrderUseCase) Create(ctx context.Context, bot *model.Bot, user *wallet.UserData, service string, country int64) (*model.Order, error) {
	if service == "" || bot.Blacklisted(service) {
		return nil, domainErrors.ErrNoService
	}

	t := tenantOf(bot)
	res, err := u.providerClient.GetNumber(ctx, t, service, country)
	if err != nil {
		return nil, err
	}

	start := Minor(res.Cost)
	final := FinalPrice(start, bot.Percent)
	if final <= 0 {
		u.releaseLease(ctx, t, res.ActivationID)
		return nil, domainErrors.ErrInvalidAmount
	}
	if user.Money < final {
		u.releaseLease(ctx, t, res.ActivationID)
		return nil, domainErrors.ErrInsufficientFunds
	}

	keys := keysOf(bot)
	comment := fmt.Sprintf("activation %s %s", service, res.Phone)
	if err := u.walletClient.SubtractBalance(ctx, keys, user, final, comment); err != nil {
		u.releaseLease(ctx, t, res.ActivationID)
		return nil, err
	}

	now := u.now()
	order := &model.Order{
		BotID:      bot.ID,
		UserID:     user.TelegramID,
		CountryID:  country,
		Service:    service,
		OrgID:      res.ActivationID,
		Phone:      res.Phone,
		Status:     model.OrderStatusWaitCode,
		StartTime:  now.Unix(),
		EndTime:    now.Add(u.ttl).Unix(),
		PriceStart: start,
		PriceFinal: final,
	}
	if res.Operator != "" {
		op := res.Operator
		order.Operator = &op
	}

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		// The user paid for a row that does not exist: give the money
		// back and release the lease.
		if rerr := u.walletClient.AddBalance(ctx, keys, user, final, "refund "+comment); rerr != nil {
			u.logger.Error("refund after persist failure failed",
				slog.Int64("org_id", res.ActivationID), slog.String("error", rerr.Error()))
		}
		u.releaseLease(ctx, t, res.ActivationID)
		return nil, err
	}
	return created, nil
}

// CreateMulti reserves one number shared by several services. Orders are
// priced per activation from the upstream's live list and debited as a
// single total.
func (u *OrderUseCase) CreateMulti(ctx context.Context, bot *model.Bot, user *wallet.UserData, services []string, country int64) ([]model.Order, error) {
	if len(services) == 0 {
		return nil, domainErrors.ErrNoService
	}
	for _, s := range services {
		if s == "" || bot.Blacklisted(s) {
			return nil, domainErrors.ErrNoService
		}
	}

	t := tenantOf(bot)
	reservations, err := u.providerClient.GetMultiServiceNumber(ctx, t, services, country)
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, domainErrors.ErrNoService
	}

	active, err := u.providerClient.GetActiveActivations(ctx, t)
	if err != nil {
		u.releaseAll(ctx, t, reservations)
		return nil, err
	}
	costs := make(map[int64]provider.ActiveActivation, len(active))
	for _, a := range active {
		costs[a.ActivationID] = a
	}

	var total int64
	for _, res := range reservations {
		a, ok := costs[res.ActivationID]
		if !ok {
			u.releaseAll(ctx, t, reservations)
			return nil, fmt.Errorf("activation %d missing from active list", res.ActivationID)
		}
		total += FinalPrice(Minor(a.Cost), bot.Percent)
	}
	if total <= 0 {
		u.releaseAll(ctx, t, reservations)
		return nil, domainErrors.ErrInvalidAmount
	}
	if user.Money < total {
		u.releaseAll(ctx, t, reservations)
		return nil, domainErrors.ErrInsufficientFunds
	}

	keys := keysOf(bot)
	comment := fmt.Sprintf("multiservice activation %s", reservations[0].Phone)
	if err := u.walletClient.SubtractBalance(ctx, keys, user, total, comment); err != nil {
		u.releaseAll(ctx, t, reservations)
		return nil, err
	}

	now := u.now()
	orders := make([]model.Order, 0, len(reservations))
	for _, res := range reservations {
		a := costs[res.ActivationID]
		start := Minor(a.Cost)
		order := &model.Order{
			BotID:      bot.ID,
			UserID:     user.TelegramID,
			CountryID:  country,
			Service:    a.ServiceCode,
			OrgID:      res.ActivationID,
			Phone:      a.Phone,
			Status:     model.OrderStatusWaitCode,
			StartTime:  now.Unix(),
			EndTime:    now.Add(u.ttl).Unix(),
			PriceStart: start,
			PriceFinal: FinalPrice(start, bot.Percent),
		}
		created, err := u.orders.Create(ctx, order)
		if err != nil {
			u.logger.Error("persist multiservice order failed",
				slog.Int64("org_id", res.ActivationID), slog.String("error", err.Error()))
			// The debit covered this share: give it back and drop the
			// lease, the remaining rows proceed on their own.
			refund := fmt.Sprintf("refund multiservice activation %s %s", a.ServiceCode, a.Phone)
			if rerr := u.walletClient.AddBalance(ctx, keys, user, order.PriceFinal, refund); rerr != nil {
				u.logger.Error("refund after persist failure failed",
					slog.Int64("org_id", res.ActivationID), slog.String("error", rerr.Error()))
			}
			u.releaseLease(ctx, t, res.ActivationID)
			continue
		}
		orders = append(orders, *created)
	}
	if len(orders) == 0 {
		return nil, domainErrors.ErrNoService
	}
	return orders, nil
}

func (u *OrderUseCase) releaseLease(ctx context.Context, t provider.Tenant, orgID int64) {
	if err := u.pushStatus(ctx, t, orgID, provider.AccessCancel); err != nil {
		u.logger.Error("release upstream lease failed",
			slog.Int64("org_id", orgID), slog.String("error", err.Error()))
	}
}

func (u *OrderUseCase) releaseAll(ctx context.Context, t provider.Tenant, reservations []provider.Reservation) {
	for _, res := range reservations {
		u.releaseLease(ctx, t, res.ActivationID)
	}
}

// Get returns a single order row.
func (u *OrderUseCase) Get(ctx context.Context, orgID int64) (*model.Order, error) {
	return u.orders.GetByOrgID(ctx, orgID)
}

// ListByUser returns the user's orders in a tenant, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, botID, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, botID, userID)
}

// Poll reconciles an order against upstream state and returns the row as
// it stands afterwards. Upstream reads run before the row lock; the
// wallet billing call runs inside it, so a code is persisted only when
// the wallet accepted the charge, exactly once per order.
func (u *OrderUseCase) Poll(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.Order, error) {
	t := tenantOf(bot)
	keys := keysOf(bot)

	status, statusErr := u.providerClient.GetStatus(ctx, t, orgID)

	code := ""
	if statusErr == nil && status != provider.StatusCancel && status != provider.StatusFinish {
		if active, err := u.providerClient.GetActiveActivations(ctx, t); err == nil {
			for _, a := range active {
				if a.ActivationID == orgID {
					code = a.SMSCode
					// Some upstreams only fill the raw message body.
					if !ValidSMSCode(code) {
						code = a.SMSText
					}
					break
				}
			}
		} else {
			u.logger.Error("list active activations failed",
				slog.Int64("org_id", orgID), slog.String("error", err.Error()))
		}
	}

	return u.orders.Mutate(ctx, orgID, func(o *model.Order) (bool, error) {
		if o.Status.Terminal() {
			return false, nil
		}

		if statusErr != nil {
			var perr *provider.Error
			if errors.As(statusErr, &perr) && perr.Terminal() {
				// The upstream no longer knows the activation. Local
				// state decides: captured codes mean a delivered order.
				return true, u.resolveDropped(ctx, keys, user, o)
			}
			return false, statusErr
		}

		switch status {
		case provider.StatusCancel:
			if !o.HasCodes() {
				if err := u.refund(ctx, keys, user, o); err != nil {
					return false, err
				}
			}
			o.Status = model.OrderStatusCancel
			return true, nil
		case provider.StatusFinish:
			o.Status = model.OrderStatusFinish
			return true, nil
		}

		if ValidSMSCode(code) {
			return u.captureCode(ctx, keys, user, bot, o, strings.TrimSpace(code))
		}

		if status == provider.StatusWaitRetry && o.Status != model.OrderStatusWaitRetry {
			o.Status = model.OrderStatusWaitRetry
			return true, nil
		}
		return false, nil
	})
}

// captureCode persists a delivered SMS code. The first code is billed on
// the wallet ledger before anything is written; later codes on the same
// order are free.
func (u *OrderUseCase) captureCode(ctx context.Context, keys wallet.Keys, user *wallet.UserData, bot *model.Bot, o *model.Order, code string) (bool, error) {
	if !o.IsCreated {
		product := fmt.Sprintf("activation %s %s", o.Service, o.Phone)
		if _, err := u.walletClient.CreateOrder(ctx, keys, user, bot.CategoryID, o.PriceFinal, product); err != nil {
			return false, err
		}
		enc := model.EncodeCodes(code)
		o.Codes = &enc
		o.IsCreated = true
		o.Status = model.OrderStatusOK
		return true, nil
	}

	merged, changed, decodeErr := appendCode(o.Codes, code)
	if decodeErr != nil {
		u.logger.Error("stored codes are corrupt, starting a fresh list",
			slog.Int64("org_id", o.OrgID), slog.String("error", decodeErr.Error()))
	}
	if !changed {
		if o.Status != model.OrderStatusOK {
			o.Status = model.OrderStatusOK
			return true, nil
		}
		return false, nil
	}
	o.Codes = &merged
	o.Status = model.OrderStatusOK
	return true, nil
}

// resolveDropped finalizes an order the upstream has forgotten.
func (u *OrderUseCase) resolveDropped(ctx context.Context, keys wallet.Keys, user *wallet.UserData, o *model.Order) error {
	if o.HasCodes() {
		o.Status = model.OrderStatusFinish
		return nil
	}
	if err := u.refund(ctx, keys, user, o); err != nil {
		return err
	}
	o.Status = model.OrderStatusCancel
	return nil
}

func (u *OrderUseCase) refund(ctx context.Context, keys wallet.Keys, user *wallet.UserData, o *model.Order) error {
	comment := fmt.Sprintf("refund activation %s %s", o.Service, o.Phone)
	return u.walletClient.AddBalance(ctx, keys, user, o.PriceFinal, comment)
}

// Cancel aborts an order that delivered nothing and refunds the frozen
// price. Orders with captured codes cannot be cancelled.
func (u *OrderUseCase) Cancel(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.Order, error) {
	t := tenantOf(bot)
	keys := keysOf(bot)
	return u.orders.Mutate(ctx, orgID, func(o *model.Order) (bool, error) {
		if o.Status.Terminal() || o.HasCodes() {
			return false, domainErrors.ErrInvalidTransition
		}
		if err := u.pushStatus(ctx, t, orgID, provider.AccessCancel); err != nil {
			return false, err
		}
		if err := u.refund(ctx, keys, user, o); err != nil {
			return false, err
		}
		o.Status = model.OrderStatusCancel
		return true, nil
	})
}

// Confirm closes an order whose code the user has accepted.
func (u *OrderUseCase) Confirm(ctx context.Context, bot *model.Bot, orgID int64) (*model.Order, error) {
	t := tenantOf(bot)
	return u.orders.Mutate(ctx, orgID, func(o *model.Order) (bool, error) {
		if o.Status.Terminal() || !o.HasCodes() {
			return false, domainErrors.ErrInvalidTransition
		}
		if err := u.pushStatus(ctx, t, orgID, provider.AccessActivation); err != nil {
			return false, err
		}
		// A follow-up read flushes the transition upstream; the reply
		// no longer matters once the confirmation was accepted.
		if _, err := u.providerClient.GetStatus(ctx, t, orgID); err != nil {
			u.logger.Error("status flush after confirm failed",
				slog.Int64("org_id", orgID), slog.String("error", err.Error()))
		}
		o.Status = model.OrderStatusFinish
		return true, nil
	})
}

// Second asks the upstream for another SMS on an order that already
// delivered one.
func (u *OrderUseCase) Second(ctx context.Context, bot *model.Bot, orgID int64) (*model.Order, error) {
	t := tenantOf(bot)
	return u.orders.Mutate(ctx, orgID, func(o *model.Order) (bool, error) {
		if o.Status.Terminal() || !o.HasCodes() {
			return false, domainErrors.ErrInvalidTransition
		}
		if err := u.providerClient.SetStatus(ctx, t, orgID, provider.AccessReady); err != nil {
			return false, err
		}
		// Re-poll to confirm the upstream actually entered the retry
		// state; anything else means the request was silently ignored.
		status, err := u.providerClient.GetStatus(ctx, t, orgID)
		if err != nil {
			return false, err
		}
		if status != provider.StatusWaitRetry {
			return false, fmt.Errorf("%w: second code request left %s", provider.ErrUnexpectedStatus, status)
		}
		o.Status = model.OrderStatusWaitRetry
		return true, nil
	})
}

// SelectExpired returns a batch of orders past their deadline.
func (u *OrderUseCase) SelectExpired(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectExpired(ctx, u.now().Unix(), limit)
}

// FinalizeExpired resolves one expired order: captured codes close it as
// delivered, anything else is cancelled upstream and refunded. Wallet
// account state is fetched with tenant credentials since no user secret
// is available in the sweep.
func (u *OrderUseCase) FinalizeExpired(ctx context.Context, o model.Order) error {
	bot, err := u.bots.GetByID(ctx, o.BotID)
	if err != nil {
		return fmt.Errorf("load tenant %d: %w", o.BotID, err)
	}
	keys := keysOf(bot)
	t := tenantOf(bot)

	user, err := u.walletClient.GetUser(ctx, o.UserID, keys)
	if err != nil {
		return fmt.Errorf("load wallet user %d: %w", o.UserID, err)
	}

	// Fast path for undelivered orders: tell the upstream first, then
	// claim the WAIT_CODE row in one guarded update so a concurrent
	// poll finds it terminal instead of billing a dead number. A lost
	// claim means the row moved on; resolve it under the full lock.
	if !o.HasCodes() {
		if err := u.pushStatus(ctx, t, o.OrgID, provider.AccessCancel); err != nil {
			return err
		}
		claimed, err := u.orders.ForceCancelWaiting(ctx, o.OrgID)
		if err != nil {
			return err
		}
		if claimed {
			return u.refund(ctx, keys, user, &o)
		}
	}

	_, err = u.orders.Mutate(ctx, o.OrgID, func(row *model.Order) (bool, error) {
		if row.Status.Terminal() {
			return false, nil
		}
		if row.HasCodes() {
			if err := u.pushStatus(ctx, t, row.OrgID, provider.AccessActivation); err != nil {
				return false, err
			}
			row.Status = model.OrderStatusFinish
			return true, nil
		}
		if err := u.pushStatus(ctx, t, row.OrgID, provider.AccessCancel); err != nil {
			return false, err
		}
		if err := u.refund(ctx, keys, user, row); err != nil {
			return false, err
		}
		row.Status = model.OrderStatusCancel
		return true, nil
	})
	return err
}
