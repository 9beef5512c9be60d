package usecase

import (
	"context"

	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/domain/repository"
)

// UserUseCase tracks per-user state that lives locally rather than on
// the wallet platform: the selected service and interface language.
type UserUseCase struct {
	users repository.UserRepository
}

func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// Touch registers the user on first contact and returns the row.
func (u *UserUseCase) Touch(ctx context.Context, telegramID int64) (*model.User, error) {
	return u.users.GetOrCreate(ctx, telegramID)
}

func (u *UserUseCase) Get(ctx context.Context, telegramID int64) (*model.User, error) {
	return u.users.GetByTelegramID(ctx, telegramID)
}

func (u *UserUseCase) SetService(ctx context.Context, telegramID int64, service string) error {
	if _, err := u.users.GetOrCreate(ctx, telegramID); err != nil {
		return err
	}
	return u.users.SetService(ctx, telegramID, service)
}

func (u *UserUseCase) SetLanguage(ctx context.Context, telegramID int64, language string) error {
	if _, err := u.users.GetOrCreate(ctx, telegramID); err != nil {
		return err
	}
	return u.users.SetLanguage(ctx, telegramID, language)
}
