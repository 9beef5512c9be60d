package usecase

import (
	"context"

	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/domain/repository"
)

// BotUseCase manages tenant records. Operator console only.
type BotUseCase struct {
	bots repository.BotRepository
}

func NewBotUseCase(bots repository.BotRepository) *BotUseCase {
	return &BotUseCase{bots: bots}
}

func (u *BotUseCase) Create(ctx context.Context, bot *model.Bot) (*model.Bot, error) {
	return u.bots.Create(ctx, bot)
}

func (u *BotUseCase) Get(ctx context.Context, id int64) (*model.Bot, error) {
	return u.bots.GetByID(ctx, id)
}

func (u *BotUseCase) GetByPublicKey(ctx context.Context, publicKey string) (*model.Bot, error) {
	return u.bots.GetByPublicKey(ctx, publicKey)
}

func (u *BotUseCase) Update(ctx context.Context, bot *model.Bot) error {
	return u.bots.Update(ctx, bot)
}

func (u *BotUseCase) Delete(ctx context.Context, publicKey string) error {
	return u.bots.Delete(ctx, publicKey)
}
