package di

import (
	"go.uber.org/fx"

	"github.com/numrent/activate/internal/adapter/provider"
	"github.com/numrent/activate/internal/adapter/wallet"
	"github.com/numrent/activate/internal/app"
	"github.com/numrent/activate/internal/cache"
	"github.com/numrent/activate/internal/config"
	"github.com/numrent/activate/internal/logger"
	"github.com/numrent/activate/internal/pkg/auth"
	"github.com/numrent/activate/internal/server/http/handlers"
	"github.com/numrent/activate/internal/server/http/router"
	"github.com/numrent/activate/internal/storage/postgres"
	"github.com/numrent/activate/internal/usecase"
)

// Module assembles the full application graph. Extra options are
// appended so tests can override single components.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		cache.Module,
		provider.Module,
		wallet.Module,
		usecase.Module,
		fx.Provide(func(f *app.BrokerFacade) handlers.BrokerFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
