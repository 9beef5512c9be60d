package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/numrent/activate/internal/adapter/provider"
	"github.com/numrent/activate/internal/adapter/wallet"
	"github.com/numrent/activate/internal/app"
	"github.com/numrent/activate/internal/config"
	"github.com/numrent/activate/internal/domain/repository"
	"github.com/numrent/activate/internal/storage/postgres"
	"github.com/numrent/activate/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		ProviderBaseURL: "http://localhost",
		WalletBaseURL:   "http://localhost",
		TokenSecret:     "secret",
		ActivationTTL:   time.Minute,
		CatalogCacheTTL: time.Minute,
		SweepInterval:   time.Millisecond,
		SweepBatchSize:  1,
		WorkerPoolSize:  1,
		ShutdownTimeout: time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var facade *app.BrokerFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.BotRepository(test.NewBotRepositoryStub())),
			fx.Replace(repository.UserRepository(test.NewUserRepositoryStub())),
			fx.Replace(repository.CountryRepository(&test.CountryRepositoryStub{})),
			fx.Replace(repository.OrderRepository(test.NewOrderRepositoryStub())),
			fx.Replace(repository.RentRepository(test.NewRentRepositoryStub())),
			fx.Replace(provider.Client(&test.ProviderClientStub{})),
			fx.Replace(wallet.Client(&test.WalletClientStub{Money: 1000})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected broker facade instance")
	}
}
