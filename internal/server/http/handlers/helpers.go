package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/numrent/activate/internal/adapter/provider"
	"github.com/numrent/activate/internal/adapter/wallet"
	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/server/http/dto"
	"github.com/numrent/activate/internal/server/http/middleware"
)

// CurrentBot extracts the resolved tenant from context.
func CurrentBot(c *gin.Context) *model.Bot {
	val, ok := c.Get(middleware.BotContextKey)
	if !ok {
		return nil
	}
	bot, _ := val.(*model.Bot)
	return bot
}

// CurrentUser extracts the verified wallet user from context.
func CurrentUser(c *gin.Context) *wallet.UserData {
	val, ok := c.Get(middleware.WalletUserContextKey)
	if !ok {
		return nil
	}
	user, _ := val.(*wallet.UserData)
	return user
}

// queryID parses an int64 query parameter, zero when absent or bad.
func queryID(c *gin.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return v
}

// queryInt parses an int query parameter with a fallback.
func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// respond maps a use case outcome onto the envelope protocol: known
// business failures become result=false with HTTP 200, anything else is
// an infrastructure fault.
func respond(c *gin.Context, data any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, dto.OK(data))
		return
	}

	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusOK, dto.Fail("not found"))
	case errors.Is(err, domainErrors.ErrNoService):
		c.JSON(http.StatusOK, dto.Fail("service is not available"))
	case errors.Is(err, domainErrors.ErrInsufficientFunds):
		c.JSON(http.StatusOK, dto.Fail("insufficient funds"))
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusOK, dto.Fail("order state does not allow this"))
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		c.JSON(http.StatusOK, dto.Fail("invalid amount"))
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusOK, dto.Fail("already exists"))
	default:
		var perr *provider.Error
		if errors.As(err, &perr) {
			c.JSON(http.StatusOK, dto.Fail(providerMessage(perr)))
			return
		}
		var werr *wallet.Error
		if errors.As(err, &werr) {
			c.JSON(http.StatusOK, dto.Fail(werr.Message))
			return
		}
		c.Status(http.StatusInternalServerError)
	}
}

func providerMessage(err *provider.Error) string {
	switch err.Kind {
	case provider.KindNoNumbers:
		return "no numbers available"
	case provider.KindNoBalance:
		return "provider balance exhausted"
	case provider.KindBadService:
		return "unknown service"
	default:
		return "provider rejected the request"
	}
}
