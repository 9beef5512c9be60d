package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/server/http/dto"
)

// AdminHandler serves the operator console: login, tenant management,
// catalog maintenance.
type AdminHandler struct {
	auth    AuthFacade
	bots    AdminFacade
	catalog CatalogFacade
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(auth AuthFacade, bots AdminFacade, catalog CatalogFacade) *AdminHandler {
	return &AdminHandler{auth: auth, bots: bots, catalog: catalog}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	token, err := h.auth.AdminLogin(req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.AdminLoginResponse{Token: token}))
}

// CreateBot handles POST /api/admin/bot.
func (h *AdminHandler) CreateBot(c *gin.Context) {
	var req dto.BotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	bot, err := h.bots.CreateBot(c.Request.Context(), req.Model())
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewBotResponse(bot), nil)
}

// GetBot handles GET /api/admin/bot/:publicKey.
func (h *AdminHandler) GetBot(c *gin.Context) {
	bot, err := h.bots.GetBot(c.Request.Context(), c.Param("publicKey"))
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewBotResponse(bot), nil)
}

// UpdateBot handles PUT /api/admin/bot. The public key selects the
// tenant; everything else is replaced.
func (h *AdminHandler) UpdateBot(c *gin.Context) {
	var req dto.BotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	existing, err := h.bots.GetBot(c.Request.Context(), req.PublicKey)
	if err != nil {
		respond(c, nil, err)
		return
	}
	bot := req.Model()
	bot.ID = existing.ID
	if err := h.bots.UpdateBot(c.Request.Context(), bot); err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewBotResponse(bot), nil)
}

// DeleteBot handles DELETE /api/admin/bot/:publicKey.
func (h *AdminHandler) DeleteBot(c *gin.Context) {
	if err := h.bots.DeleteBot(c.Request.Context(), c.Param("publicKey")); err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, gin.H{"deleted": true}, nil)
}

// SyncCountries handles POST /api/admin/syncCountries. Upstream calls
// are tenant-keyed, so the console names which tenant's key to use.
func (h *AdminHandler) SyncCountries(c *gin.Context) {
	publicKey := c.Query("public_key")
	if publicKey == "" {
		c.JSON(http.StatusOK, dto.Fail("public_key is required"))
		return
	}
	bot, err := h.bots.GetBot(c.Request.Context(), publicKey)
	if err != nil {
		respond(c, nil, err)
		return
	}
	synced, err := h.catalog.SyncCountries(c.Request.Context(), bot)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, gin.H{"synced": synced}, nil)
}

// UpdateFlags handles POST /api/admin/updateFlags.
func (h *AdminHandler) UpdateFlags(c *gin.Context) {
	base := c.Query("base_url")
	if base == "" {
		c.JSON(http.StatusOK, dto.Fail("base_url is required"))
		return
	}
	updated, err := h.catalog.UpdateFlags(c.Request.Context(), base)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, gin.H{"updated": updated}, nil)
}

// SetCountryImage handles POST /api/admin/country/image.
func (h *AdminHandler) SetCountryImage(c *gin.Context) {
	orgID := queryID(c, "id")
	image := c.Query("image")
	if orgID == 0 || image == "" {
		c.JSON(http.StatusOK, dto.Fail("id and image are required"))
		return
	}
	err := h.catalog.SetCountryImage(c.Request.Context(), orgID, image)
	respond(c, gin.H{"updated": err == nil}, err)
}
