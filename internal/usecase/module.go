package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/numrent/activate/internal/adapter/provider"
	"github.com/numrent/activate/internal/adapter/wallet"
	"github.com/numrent/activate/internal/cache"
	"github.com/numrent/activate/internal/config"
	"github.com/numrent/activate/internal/domain/repository"
	"github.com/numrent/activate/internal/pkg/auth"
)

// Module wires the use cases into the fx graph.
var Module = fx.Provide(
	newOrderUseCase,
	newRentUseCase,
	newAuthUseCase,
	NewBotUseCase,
	NewUserUseCase,
	NewCountryUseCase,
)

type orderParams struct {
	fx.In

	Orders   repository.OrderRepository
	Bots     repository.BotRepository
	Provider provider.Client
	Wallet   wallet.Client
	Config   *config.Config
	Logger   *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Bots, p.Provider, p.Wallet, p.Config.ActivationTTL, p.Logger)
}

type rentParams struct {
	fx.In

	Rents    repository.RentRepository
	Bots     repository.BotRepository
	Provider provider.Client
	Wallet   wallet.Client
	Cache    cache.Cache
	Config   *config.Config
	Logger   *slog.Logger
}

func newRentUseCase(p rentParams) *RentUseCase {
	return NewRentUseCase(p.Rents, p.Bots, p.Provider, p.Wallet, p.Cache,
		p.Config.CatalogCacheTTL, p.Config.WebhookBaseURL, p.Logger)
}

type authParams struct {
	fx.In

	Bots   repository.BotRepository
	Wallet wallet.Client
	Hasher auth.PasswordHasher
	Tokens auth.Strategy
	Config *config.Config
}

func newAuthUseCase(p authParams) *AuthUseCase {
	return NewAuthUseCase(p.Bots, p.Wallet, p.Hasher, p.Tokens, p.Config.AdminPasswordHash)
}
