package app

import (
	"context"
	"time"

	"github.com/numrent/activate/internal/adapter/wallet"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/usecase"
)

// BrokerFacade is the single application surface consumed by the HTTP
// layer and the sweeper. It fans requests out to the use cases.
type BrokerFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	rents     *usecase.RentUseCase
	bots      *usecase.BotUseCase
	users     *usecase.UserUseCase
	countries *usecase.CountryUseCase
}

func NewBrokerFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	rents *usecase.RentUseCase,
	bots *usecase.BotUseCase,
	users *usecase.UserUseCase,
	countries *usecase.CountryUseCase,
) *BrokerFacade {
	return &BrokerFacade{
		auth:      auth,
		orders:    orders,
		rents:     rents,
		bots:      bots,
		users:     users,
		countries: countries,
	}
}

func (f *BrokerFacade) IdentifyClient(ctx context.Context, publicKey string, telegramID int64, secretKey string) (*model.Bot, *wallet.UserData, error) {
	return f.auth.IdentifyClient(ctx, publicKey, telegramID, secretKey)
}

func (f *BrokerFacade) AdminLogin(password string) (string, error) {
	return f.auth.AdminLogin(password)
}

func (f *BrokerFacade) VerifyAdmin(token string) error {
	return f.auth.VerifyAdmin(token)
}

func (f *BrokerFacade) CreateOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, service string, country int64) (*model.Order, error) {
	return f.orders.Create(ctx, bot, user, service, country)
}

func (f *BrokerFacade) CreateMulti(ctx context.Context, bot *model.Bot, user *wallet.UserData, services []string, country int64) ([]model.Order, error) {
	return f.orders.CreateMulti(ctx, bot, user, services, country)
}

func (f *BrokerFacade) PollOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.Order, error) {
	return f.orders.Poll(ctx, bot, user, orgID)
}

func (f *BrokerFacade) Orders(ctx context.Context, botID, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, botID, userID)
}

func (f *BrokerFacade) CloseOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, bot, user, orgID)
}

func (f *BrokerFacade) ConfirmOrder(ctx context.Context, bot *model.Bot, orgID int64) (*model.Order, error) {
	return f.orders.Confirm(ctx, bot, orgID)
}

func (f *BrokerFacade) SecondSMS(ctx context.Context, bot *model.Bot, orgID int64) (*model.Order, error) {
	return f.orders.Second(ctx, bot, orgID)
}

func (f *BrokerFacade) RentCatalog(ctx context.Context, bot *model.Bot, country int64, hours int) (*usecase.RentCatalogView, error) {
	return f.rents.Catalog(ctx, bot, country, hours)
}

func (f *BrokerFacade) CreateRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, service string, country int64, hours int) (*model.RentOrder, error) {
	return f.rents.Create(ctx, bot, user, service, country, hours)
}

func (f *BrokerFacade) GetRent(ctx context.Context, orgID int64) (*model.RentOrder, error) {
	return f.rents.Get(ctx, orgID)
}

func (f *BrokerFacade) Rents(ctx context.Context, botID, userID int64) ([]model.RentOrder, error) {
	return f.rents.ListByUser(ctx, botID, userID)
}

func (f *BrokerFacade) CloseRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.RentOrder, error) {
	return f.rents.Cancel(ctx, bot, user, orgID)
}

func (f *BrokerFacade) ConfirmRent(ctx context.Context, bot *model.Bot, orgID int64) (*model.RentOrder, error) {
	return f.rents.Confirm(ctx, bot, orgID)
}

func (f *BrokerFacade) ContinueRentPrice(ctx context.Context, bot *model.Bot, orgID int64, hours int) (int64, error) {
	return f.rents.ContinuePrice(ctx, bot, orgID, hours)
}

func (f *BrokerFacade) ContinueRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64, hours int) (*model.RentOrder, error) {
	return f.rents.Continue(ctx, bot, user, orgID, hours)
}

func (f *BrokerFacade) UpdateRentSMS(ctx context.Context, rentID int64, text string, smsID int64, date time.Time) error {
	return f.rents.UpdateSMS(ctx, rentID, text, smsID, date)
}

func (f *BrokerFacade) TouchUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return f.users.Touch(ctx, telegramID)
}

func (f *BrokerFacade) SetService(ctx context.Context, telegramID int64, service string) error {
	return f.users.SetService(ctx, telegramID, service)
}

func (f *BrokerFacade) SetLanguage(ctx context.Context, telegramID int64, language string) error {
	return f.users.SetLanguage(ctx, telegramID, language)
}

func (f *BrokerFacade) Countries(ctx context.Context) ([]model.Country, error) {
	return f.countries.List(ctx)
}

func (f *BrokerFacade) UpdateFlags(ctx context.Context, baseURL string) (int, error) {
	return f.countries.UpdateFlags(ctx, baseURL)
}

func (f *BrokerFacade) SyncCountries(ctx context.Context, bot *model.Bot) (int, error) {
	return f.countries.Sync(ctx, bot)
}

func (f *BrokerFacade) SetCountryImage(ctx context.Context, orgID int64, image string) error {
	return f.countries.SetImage(ctx, orgID, image)
}

func (f *BrokerFacade) CreateBot(ctx context.Context, bot *model.Bot) (*model.Bot, error) {
	return f.bots.Create(ctx, bot)
}

func (f *BrokerFacade) GetBot(ctx context.Context, publicKey string) (*model.Bot, error) {
	return f.bots.GetByPublicKey(ctx, publicKey)
}

func (f *BrokerFacade) UpdateBot(ctx context.Context, bot *model.Bot) error {
	return f.bots.Update(ctx, bot)
}

func (f *BrokerFacade) DeleteBot(ctx context.Context, publicKey string) error {
	return f.bots.Delete(ctx, publicKey)
}

// Sweeper surface.

func (f *BrokerFacade) ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.SelectExpired(ctx, limit)
}

func (f *BrokerFacade) FinalizeOrder(ctx context.Context, order model.Order) error {
	return f.orders.FinalizeExpired(ctx, order)
}

func (f *BrokerFacade) ExpiredRents(ctx context.Context, limit int) ([]model.RentOrder, error) {
	return f.rents.SelectExpired(ctx, limit)
}

func (f *BrokerFacade) FinalizeRent(ctx context.Context, rent model.RentOrder) error {
	return f.rents.FinalizeExpired(ctx, rent)
}
