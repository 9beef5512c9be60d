package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/numrent/activate/internal/server/http/dto"
)

// UserHandler serves the profile and catalog actions.
type UserHandler struct {
	users   UserFacade
	catalog CatalogFacade
}

// NewUserHandler creates UserHandler instance.
func NewUserHandler(users UserFacade, catalog CatalogFacade) *UserHandler {
	return &UserHandler{users: users, catalog: catalog}
}

// Get handles GET /api/getUser. The row is created on first contact;
// the balance comes from the already-verified wallet identity.
func (h *UserHandler) Get(c *gin.Context) {
	walletUser := CurrentUser(c)
	user, err := h.users.TouchUser(c.Request.Context(), walletUser.TelegramID)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewUserResponse(user, walletUser.Money), nil)
}

// SetService handles GET /api/setService.
func (h *UserHandler) SetService(c *gin.Context) {
	service := c.Query("service")
	if service == "" {
		c.JSON(http.StatusOK, dto.Fail("service is required"))
		return
	}
	err := h.users.SetService(c.Request.Context(), CurrentUser(c).TelegramID, service)
	respond(c, gin.H{"service": service}, err)
}

// SetLanguage handles GET /api/setLanguage.
func (h *UserHandler) SetLanguage(c *gin.Context) {
	language := c.Query("language")
	if language == "" {
		c.JSON(http.StatusOK, dto.Fail("language is required"))
		return
	}
	err := h.users.SetLanguage(c.Request.Context(), CurrentUser(c).TelegramID, language)
	respond(c, gin.H{"language": language}, err)
}

// Countries handles GET /api/getCountries.
func (h *UserHandler) Countries(c *gin.Context) {
	countries, err := h.catalog.Countries(c.Request.Context())
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewCountryList(countries), nil)
}
