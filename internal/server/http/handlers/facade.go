package handlers

import (
	"context"
	"time"

	"github.com/numrent/activate/internal/adapter/wallet"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers
// and middleware.
type AuthFacade interface {
	IdentifyClient(ctx context.Context, publicKey string, telegramID int64, secretKey string) (*model.Bot, *wallet.UserData, error)
	AdminLogin(password string) (string, error)
	VerifyAdmin(token string) error
}

// OrderFacade encapsulates activation operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, service string, country int64) (*model.Order, error)
	CreateMulti(ctx context.Context, bot *model.Bot, user *wallet.UserData, services []string, country int64) ([]model.Order, error)
	PollOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.Order, error)
	Orders(ctx context.Context, botID, userID int64) ([]model.Order, error)
	CloseOrder(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.Order, error)
	ConfirmOrder(ctx context.Context, bot *model.Bot, orgID int64) (*model.Order, error)
	SecondSMS(ctx context.Context, bot *model.Bot, orgID int64) (*model.Order, error)
}

// RentFacade encapsulates rental operations exposed via HTTP.
type RentFacade interface {
	RentCatalog(ctx context.Context, bot *model.Bot, country int64, hours int) (*usecase.RentCatalogView, error)
	CreateRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, service string, country int64, hours int) (*model.RentOrder, error)
	GetRent(ctx context.Context, orgID int64) (*model.RentOrder, error)
	Rents(ctx context.Context, botID, userID int64) ([]model.RentOrder, error)
	CloseRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64) (*model.RentOrder, error)
	ConfirmRent(ctx context.Context, bot *model.Bot, orgID int64) (*model.RentOrder, error)
	ContinueRentPrice(ctx context.Context, bot *model.Bot, orgID int64, hours int) (int64, error)
	ContinueRent(ctx context.Context, bot *model.Bot, user *wallet.UserData, orgID int64, hours int) (*model.RentOrder, error)
	UpdateRentSMS(ctx context.Context, rentID int64, text string, smsID int64, date time.Time) error
}

// UserFacade provides local profile operations.
type UserFacade interface {
	TouchUser(ctx context.Context, telegramID int64) (*model.User, error)
	SetService(ctx context.Context, telegramID int64, service string) error
	SetLanguage(ctx context.Context, telegramID int64, language string) error
}

// CatalogFacade maintains the mirrored country catalog.
type CatalogFacade interface {
	Countries(ctx context.Context) ([]model.Country, error)
	SyncCountries(ctx context.Context, bot *model.Bot) (int, error)
	UpdateFlags(ctx context.Context, baseURL string) (int, error)
	SetCountryImage(ctx context.Context, orgID int64, image string) error
}

// AdminFacade manages tenants. Operator console only.
type AdminFacade interface {
	CreateBot(ctx context.Context, bot *model.Bot) (*model.Bot, error)
	GetBot(ctx context.Context, publicKey string) (*model.Bot, error)
	UpdateBot(ctx context.Context, bot *model.Bot) error
	DeleteBot(ctx context.Context, publicKey string) error
}

// BrokerFacade aggregates the full set of operations used across handlers.
type BrokerFacade interface {
	AuthFacade
	OrderFacade
	RentFacade
	UserFacade
	CatalogFacade
	AdminFacade
}
