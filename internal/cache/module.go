package cache

import (
	"context"

	"go.uber.org/fx"

	"github.com/numrent/activate/internal/config"
)

type cacheParams struct {
	fx.In

	Config    *config.Config
	Lifecycle fx.Lifecycle
}

func newCache(p cacheParams) Cache {
	if p.Config.RedisAddr == "" {
		return Noop{}
	}
	c := NewRedisCache(p.Config.RedisAddr)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c
}

var Module = fx.Provide(newCache)
