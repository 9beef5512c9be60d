package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/pkg/auth"
)

func testAuthUseCase(t *testing.T, adminPassword string) *AuthUseCase {
	t.Helper()
	hasher := auth.NewBcryptHasher(4)
	hash := ""
	if adminPassword != "" {
		var err error
		hash, err = hasher.Hash(adminPassword)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
	}
	tokens := auth.NewHMACStrategy("test-secret", auth.Options{TTL: time.Minute})
	return NewAuthUseCase(&fakeBots{bot: testBot()}, &fakeWallet{}, hasher, tokens, hash)
}

func TestAdminLogin(t *testing.T) {
	uc := testAuthUseCase(t, "hunter2")

	token, err := uc.AdminLogin("hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.VerifyAdmin(token); err != nil {
		t.Fatalf("issued token must verify: %v", err)
	}

	if _, err := uc.AdminLogin("wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminLoginDisabledWithoutHash(t *testing.T) {
	uc := testAuthUseCase(t, "")
	if _, err := uc.AdminLogin("anything"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyAdminRejectsGarbage(t *testing.T) {
	uc := testAuthUseCase(t, "hunter2")
	for _, token := range []string{"", "not-a-token", "AAAA"} {
		if err := uc.VerifyAdmin(token); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
			t.Fatalf("token %q: expected ErrInvalidCredentials, got %v", token, err)
		}
	}
}

func TestIdentifyClient(t *testing.T) {
	uc := testAuthUseCase(t, "hunter2")
	bot, user, err := uc.IdentifyClient(context.Background(), "pub", 42, "user-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bot.PublicKey != "pub" || user.TelegramID != 42 {
		t.Fatalf("unexpected identity: bot=%s user=%d", bot.PublicKey, user.TelegramID)
	}
}
