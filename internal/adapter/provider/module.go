package provider

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/numrent/activate/internal/config"
)

// Module exposes the upstream provider client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.ProviderBaseURL, p.Logger)
}
