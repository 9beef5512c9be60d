package wallet

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/numrent/activate/internal/config"
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.WalletBaseURL, p.Logger)
}

var Module = fx.Provide(newClient)
