package repository

import (
	"context"

	"github.com/numrent/activate/internal/domain/model"
)

// BotRepository persists tenant records.
type BotRepository interface {
	Create(ctx context.Context, bot *model.Bot) (*model.Bot, error)
	GetByID(ctx context.Context, id int64) (*model.Bot, error)
	GetByPublicKey(ctx context.Context, publicKey string) (*model.Bot, error)
	Update(ctx context.Context, bot *model.Bot) error
	Delete(ctx context.Context, publicKey string) error
}
