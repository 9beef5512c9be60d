package repository

import (
	"context"

	"github.com/numrent/activate/internal/domain/model"
)

// UserRepository persists end-users keyed by telegram id.
type UserRepository interface {
	GetOrCreate(ctx context.Context, telegramID int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	SetService(ctx context.Context, telegramID int64, service string) error
	SetLanguage(ctx context.Context, telegramID int64, language string) error
}
