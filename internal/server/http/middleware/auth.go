package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/numrent/activate/internal/adapter/wallet"
	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/server/http/dto"
)

const (
	// BotContextKey is a gin context key for the resolved tenant.
	BotContextKey = "bot"
	// WalletUserContextKey is a gin context key for the verified wallet user.
	WalletUserContextKey = "walletUser"
)

// ClientAuth verifies a tenant public key plus wallet user credentials.
type ClientAuth interface {
	IdentifyClient(ctx context.Context, publicKey string, telegramID int64, secretKey string) (*model.Bot, *wallet.UserData, error)
}

// AdminAuth validates operator session tokens.
type AdminAuth interface {
	VerifyAdmin(token string) error
}

// TenantAuth resolves the tenant and wallet user from the request query
// and stores both in the context. Rejections are business replies, not
// HTTP errors: bot clients only read the envelope.
func TenantAuth(facade ClientAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		publicKey := c.Query("public_key")
		secretKey := c.Query("user_secret_key")
		userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if publicKey == "" || secretKey == "" || err != nil {
			c.AbortWithStatusJSON(http.StatusOK, dto.Fail("bad credentials"))
			return
		}

		bot, user, idErr := facade.IdentifyClient(c.Request.Context(), publicKey, userID, secretKey)
		if idErr != nil {
			if errors.Is(idErr, domainErrors.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusOK, dto.Fail("unknown public key"))
				return
			}
			var werr *wallet.Error
			if errors.As(idErr, &werr) {
				c.AbortWithStatusJSON(http.StatusOK, dto.Fail(werr.Message))
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(BotContextKey, bot)
		c.Set(WalletUserContextKey, user)
		c.Next()
	}
}

// AdminRequired guards operator endpoints with a bearer token.
func AdminRequired(facade AdminAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if err := facade.VerifyAdmin(token); err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
