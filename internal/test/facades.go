package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/numrent/activate/internal/adapter/wallet"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/usecase"
)

// DefaultBot returns the tenant fixture shared across handler tests.
func DefaultBot() *model.Bot {
	return &model.Bot{ID: 1, PublicKey: "pub", PrivateKey: "priv", APIKey: "api-key", Percent: 10, CategoryID: 7}
}

// DefaultWalletUser returns the wallet user fixture.
func DefaultWalletUser() *wallet.UserData {
	return &wallet.UserData{TelegramID: 42, SecretKey: "user-secret", Money: 1000}
}

// DefaultOrder returns an activation order fixture.
func DefaultOrder() *model.Order {
	return &model.Order{ID: 1, BotID: 1, UserID: 42, Service: "tg", OrgID: 500,
		Phone: "79001112233", Status: model.OrderStatusWaitCode, PriceStart: 100, PriceFinal: 110}
}

// DefaultRent returns a rental lease fixture.
func DefaultRent() *model.RentOrder {
	return &model.RentOrder{ID: 1, BotID: 1, UserID: 42, Service: "tg", OrgID: 900,
		Phone: "79005556677", Status: model.OrderStatusWaitCode, PriceStart: 100, PriceFinal: 110}
}

// BrokerFacadeStub provides controllable behaviour for every handler
// surface. Unset functions fall back to fixture data.
type BrokerFacadeStub struct {
	IdentifyFn    func(context.Context, string, int64, string) (*model.Bot, *wallet.UserData, error)
	AdminLoginFn  func(string) (string, error)
	VerifyAdminFn func(string) error

	CreateOrderFn  func(context.Context, *model.Bot, *wallet.UserData, string, int64) (*model.Order, error)
	CreateMultiFn  func(context.Context, *model.Bot, *wallet.UserData, []string, int64) ([]model.Order, error)
	PollOrderFn    func(context.Context, *model.Bot, *wallet.UserData, int64) (*model.Order, error)
	OrdersFn       func(context.Context, int64, int64) ([]model.Order, error)
	CloseOrderFn   func(context.Context, *model.Bot, *wallet.UserData, int64) (*model.Order, error)
	ConfirmOrderFn func(context.Context, *model.Bot, int64) (*model.Order, error)
	SecondSMSFn    func(context.Context, *model.Bot, int64) (*model.Order, error)

	RentCatalogFn   func(context.Context, *model.Bot, int64, int) (*usecase.RentCatalogView, error)
	CreateRentFn    func(context.Context, *model.Bot, *wallet.UserData, string, int64, int) (*model.RentOrder, error)
	GetRentFn       func(context.Context, int64) (*model.RentOrder, error)
	RentsFn         func(context.Context, int64, int64) ([]model.RentOrder, error)
	CloseRentFn     func(context.Context, *model.Bot, *wallet.UserData, int64) (*model.RentOrder, error)
	ConfirmRentFn   func(context.Context, *model.Bot, int64) (*model.RentOrder, error)
	ContinuePriceFn func(context.Context, *model.Bot, int64, int) (int64, error)
	ContinueRentFn  func(context.Context, *model.Bot, *wallet.UserData, int64, int) (*model.RentOrder, error)
	UpdateRentFn    func(context.Context, int64, string, int64, time.Time) error

	TouchUserFn   func(context.Context, int64) (*model.User, error)
	SetServiceFn  func(context.Context, int64, string) error
	SetLanguageFn func(context.Context, int64, string) error

	CountriesFn       func(context.Context) ([]model.Country, error)
	SyncCountriesFn   func(context.Context, *model.Bot) (int, error)
	UpdateFlagsFn     func(context.Context, string) (int, error)
	SetCountryImageFn func(context.Context, int64, string) error

	CreateBotFn func(context.Context, *model.Bot) (*model.Bot, error)
	GetBotFn    func(context.Context, string) (*model.Bot, error)
	UpdateBotFn func(context.Context, *model.Bot) error
	DeleteBotFn func(context.Context, string) error
}

func (s *BrokerFacadeStub) IdentifyClient(ctx context.Context, publicKey string, telegramID int64, secretKey string) (*model.Bot, *wallet.UserData, error) {
	if s.IdentifyFn != nil {
		return s.IdentifyFn(ctx, publicKey, telegramID, secretKey)
	}
	user := DefaultWalletUser()
	user.TelegramID = telegramID
	return DefaultBot(), user, nil
}

func (s *BrokerFacadeStub) AdminLogin(password string) (string, error) {
	if s.AdminLoginFn != nil {
		return s.AdminLoginFn(password)
	}
	return "admin-token", nil
}

func (s *BrokerFacadeStub) VerifyAdmin(token string) error {
	if s.VerifyAdminFn != nil {
		return s.VerifyAdminFn(token)
	}
	return nil
}

func (s *BrokerFacadeStub) CreateOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, service string, country int64) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, bot, user, service, country)
	}
	order := DefaultOrder()
	order.Service = service
	order.CountryID = country
	return order, nil
}

func (s *BrokerFacadeStub) CreateMulti(ctx context.Context, bot *model.Bot, user *wallet.UserData, services []string, country int64) ([]model.Order, error) {
	if s.CreateMultiFn != nil {
		return s.CreateMultiFn(ctx, bot, user, services, country)
	}
	out := make([]model.Order, 0, len(services))
	for i, svc := range services {
		order := DefaultOrder()
		order.Service = svc
		order.OrgID += int64(i)
		out = append(out, *order)
	}
	return out, nil
}

func (s *BrokerFacadeStub) PollOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.Order, error) {
	if s.PollOrderFn != nil {
		return s.PollOrderFn(ctx, bot, user, orgID)
	}
	order := DefaultOrder()
	order.OrgID = orgID
	return order, nil
}

func (s *BrokerFacadeStub) Orders(ctx context.Context, botID, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, botID, userID)
	}
	return []model.Order{*DefaultOrder()}, nil
}

func (s *BrokerFacadeStub) CloseOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.Order, error) {
	if s.CloseOrderFn != nil {
		return s.CloseOrderFn(ctx, bot, user, orgID)
	}
	order := DefaultOrder()
	order.OrgID = orgID
	order.Status = model.OrderStatusCancel
	return order, nil
}

func (s *BrokerFacadeStub) ConfirmOrder(ctx context.Context, bot *model.Bot, orgID int64) (*model.Order, error) {
	if s.ConfirmOrderFn != nil {
		return s.ConfirmOrderFn(ctx, bot, orgID)
	}
	order := DefaultOrder()
	order.OrgID = orgID
	order.Status = model.OrderStatusFinish
	return order, nil
}

func (s *BrokerFacadeStub) SecondSMS(ctx context.Context, bot *model.Bot, orgID int64) (*model.Order, error) {
	if s.SecondSMSFn != nil {
		return s.SecondSMSFn(ctx, bot, orgID)
	}
	order := DefaultOrder()
	order.OrgID = orgID
	order.Status = model.OrderStatusWaitRetry
	return order, nil
}

func (s *BrokerFacadeStub) RentCatalog(ctx context.Context, bot *model.Bot, country int64, hours int) (*usecase.RentCatalogView, error) {
	if s.RentCatalogFn != nil {
		return s.RentCatalogFn(ctx, bot, country, hours)
	}
	return &usecase.RentCatalogView{Countries: []int64{0}, Offers: map[string]int64{"tg": 110}}, nil
}

func (s *BrokerFacadeStub) CreateRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, service string, country int64, hours int) (*model.RentOrder, error) {
	if s.CreateRentFn != nil {
		return s.CreateRentFn(ctx, bot, user, service, country, hours)
	}
	rent := DefaultRent()
	rent.Service = service
	return rent, nil
}

func (s *BrokerFacadeStub) GetRent(ctx context.Context, orgID int64) (*model.RentOrder, error) {
	if s.GetRentFn != nil {
		return s.GetRentFn(ctx, orgID)
	}
	rent := DefaultRent()
	rent.OrgID = orgID
	return rent, nil
}

func (s *BrokerFacadeStub) Rents(ctx context.Context, botID, userID int64) ([]model.RentOrder, error) {
	if s.RentsFn != nil {
		return s.RentsFn(ctx, botID, userID)
	}
	return []model.RentOrder{*DefaultRent()}, nil
}

func (s *BrokerFacadeStub) CloseRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.RentOrder, error) {
	if s.CloseRentFn != nil {
		return s.CloseRentFn(ctx, bot, user, orgID)
	}
	rent := DefaultRent()
	rent.OrgID = orgID
	rent.Status = model.OrderStatusCancel
	return rent, nil
}

func (s *BrokerFacadeStub) ConfirmRent(ctx context.Context, bot *model.Bot, orgID int64) (*model.RentOrder, error) {
	if s.ConfirmRentFn != nil {
		return s.ConfirmRentFn(ctx, bot, orgID)
	}
	rent := DefaultRent()
	rent.OrgID = orgID
	rent.Status = model.OrderStatusFinish
	return rent, nil
}

func (s *BrokerFacadeStub) ContinueRentPrice(ctx context.Context, bot *model.Bot, orgID int64, hours int) (int64, error) {
	if s.ContinuePriceFn != nil {
		return s.ContinuePriceFn(ctx, bot, orgID, hours)
	}
	return 55, nil
}

func (s *BrokerFacadeStub) ContinueRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64, hours int) (*model.RentOrder, error) {
	if s.ContinueRentFn != nil {
		return s.ContinueRentFn(ctx, bot, user, orgID, hours)
	}
	rent := DefaultRent()
	rent.OrgID = orgID
	return rent, nil
}

func (s *BrokerFacadeStub) UpdateRentSMS(ctx context.Context, rentID int64, text string, smsID int64, date time.Time) error {
	if s.UpdateRentFn != nil {
		return s.UpdateRentFn(ctx, rentID, text, smsID, date)
	}
	return nil
}

func (s *BrokerFacadeStub) TouchUser(ctx context.Context, telegramID int64) (*model.User, error) {
	if s.TouchUserFn != nil {
		return s.TouchUserFn(ctx, telegramID)
	}
	return &model.User{ID: 1, TelegramID: telegramID, Service: "tg", Language: "en"}, nil
}

func (s *BrokerFacadeStub) SetService(ctx context.Context, telegramID int64, service string) error {
	if s.SetServiceFn != nil {
		return s.SetServiceFn(ctx, telegramID, service)
	}
	return nil
}

func (s *BrokerFacadeStub) SetLanguage(ctx context.Context, telegramID int64, language string) error {
	if s.SetLanguageFn != nil {
		return s.SetLanguageFn(ctx, telegramID, language)
	}
	return nil
}

func (s *BrokerFacadeStub) Countries(ctx context.Context) ([]model.Country, error) {
	if s.CountriesFn != nil {
		return s.CountriesFn(ctx)
	}
	return []model.Country{{ID: 1, OrgID: 0, NameRu: "Россия", NameEn: "Russia"}}, nil
}

func (s *BrokerFacadeStub) SyncCountries(ctx context.Context, bot *model.Bot) (int, error) {
	if s.SyncCountriesFn != nil {
		return s.SyncCountriesFn(ctx, bot)
	}
	return 1, nil
}

func (s *BrokerFacadeStub) UpdateFlags(ctx context.Context, baseURL string) (int, error) {
	if s.UpdateFlagsFn != nil {
		return s.UpdateFlagsFn(ctx, baseURL)
	}
	return 1, nil
}

func (s *BrokerFacadeStub) SetCountryImage(ctx context.Context, orgID int64, image string) error {
	if s.SetCountryImageFn != nil {
		return s.SetCountryImageFn(ctx, orgID, image)
	}
	return nil
}

func (s *BrokerFacadeStub) CreateBot(ctx context.Context, bot *model.Bot) (*model.Bot, error) {
	if s.CreateBotFn != nil {
		return s.CreateBotFn(ctx, bot)
	}
	created := *bot
	created.ID = 1
	return &created, nil
}

func (s *BrokerFacadeStub) GetBot(ctx context.Context, publicKey string) (*model.Bot, error) {
	if s.GetBotFn != nil {
		return s.GetBotFn(ctx, publicKey)
	}
	bot := DefaultBot()
	bot.PublicKey = publicKey
	return bot, nil
}

func (s *BrokerFacadeStub) UpdateBot(ctx context.Context, bot *model.Bot) error {
	if s.UpdateBotFn != nil {
		return s.UpdateBotFn(ctx, bot)
	}
	return nil
}

func (s *BrokerFacadeStub) DeleteBot(ctx context.Context, publicKey string) error {
	if s.DeleteBotFn != nil {
		return s.DeleteBotFn(ctx, publicKey)
	}
	return nil
}

// SweepFacadeStub mimics sweeper interactions with the application facade.
type SweepFacadeStub struct {
	Orders          [][]model.Order
	Rents           [][]model.RentOrder
	FinalizeOrderFn func(context.Context, model.Order) error
	FinalizeRentFn  func(context.Context, model.RentOrder) error

	FinalizedOrders []model.Order
	FinalizedRents  []model.RentOrder

	mu             sync.Mutex
	orderCallCount int32
	rentCallCount  int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweepFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweepFacadeStub) Unlock() { s.mu.Unlock() }

// ExpiredOrders returns batches from the configured queue.
func (s *SweepFacadeStub) ExpiredOrders(_ context.Context, _ int) ([]model.Order, error) {
	call := atomic.AddInt32(&s.orderCallCount, 1)
	if int(call) <= len(s.Orders) {
		return s.Orders[call-1], nil
	}
	return nil, nil
}

// ExpiredRents returns batches from the configured queue.
func (s *SweepFacadeStub) ExpiredRents(_ context.Context, _ int) ([]model.RentOrder, error) {
	call := atomic.AddInt32(&s.rentCallCount, 1)
	if int(call) <= len(s.Rents) {
		return s.Rents[call-1], nil
	}
	return nil, nil
}

// FinalizeOrder records finalized orders.
func (s *SweepFacadeStub) FinalizeOrder(ctx context.Context, order model.Order) error {
	var err error
	if s.FinalizeOrderFn != nil {
		err = s.FinalizeOrderFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FinalizedOrders = append(s.FinalizedOrders, order)
	return err
}

// FinalizeRent records finalized rents.
func (s *SweepFacadeStub) FinalizeRent(ctx context.Context, rent model.RentOrder) error {
	var err error
	if s.FinalizeRentFn != nil {
		err = s.FinalizeRentFn(ctx, rent)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FinalizedRents = append(s.FinalizedRents, rent)
	return err
}
