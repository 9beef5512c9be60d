package usecase

import (
	"context"

	"github.com/numrent/activate/internal/adapter/wallet"
	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/domain/repository"
	"github.com/numrent/activate/internal/pkg/auth"
)

const adminSubject = "admin"

// AuthUseCase authenticates the two caller populations: tenant clients
// identified by public key plus wallet credentials, and the operator
// console identified by password-derived tokens.
type AuthUseCase struct {
	bots         repository.BotRepository
	walletClient wallet.Client
	hasher       auth.PasswordHasher
	tokens       auth.Strategy
	adminHash    string
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	bots repository.BotRepository,
	walletClient wallet.Client,
	hasher auth.PasswordHasher,
	tokens auth.Strategy,
	adminHash string,
) *AuthUseCase {
	return &AuthUseCase{
		bots:         bots,
		walletClient: walletClient,
		hasher:       hasher,
		tokens:       tokens,
		adminHash:    adminHash,
	}
}

// IdentifyClient resolves a tenant by public key and verifies the
// end-user against the wallet platform. Every client-facing operation
// starts here.
func (u *AuthUseCase) IdentifyClient(ctx context.Context, publicKey string, telegramID int64, secretKey string) (*model.Bot, *wallet.UserData, error) {
	bot, err := u.bots.GetByPublicKey(ctx, publicKey)
	if err != nil {
		return nil, nil, err
	}
	user, err := u.walletClient.CheckUser(ctx, telegramID, secretKey, wallet.Keys{
		PublicKey:  bot.PublicKey,
		PrivateKey: bot.PrivateKey,
	})
	if err != nil {
		return nil, nil, err
	}
	return bot, user, nil
}

// ResolveTenant looks a tenant up by public key without touching the
// wallet. Used by the webhook path, which carries no user credentials.
func (u *AuthUseCase) ResolveTenant(ctx context.Context, publicKey string) (*model.Bot, error) {
	return u.bots.GetByPublicKey(ctx, publicKey)
}

// AdminLogin checks the operator password and issues a session token.
func (u *AuthUseCase) AdminLogin(password string) (string, error) {
	if u.adminHash == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.adminHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(adminSubject)
}

// VerifyAdmin validates an operator session token.
func (u *AuthUseCase) VerifyAdmin(token string) error {
	subject, err := u.tokens.ParseToken(token)
	if err != nil || subject != adminSubject {
		return domainErrors.ErrInvalidCredentials
	}
	return nil
}
