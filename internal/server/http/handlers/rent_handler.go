package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/numrent/activate/internal/server/http/dto"
)

const defaultRentHours = 4

// RentHandler serves the rental lease actions.
type RentHandler struct {
	facade RentFacade
}

// NewRentHandler creates RentHandler instance.
func NewRentHandler(facade RentFacade) *RentHandler {
	return &RentHandler{facade: facade}
}

// Catalog handles GET /api/rent/services.
func (h *RentHandler) Catalog(c *gin.Context) {
	view, err := h.facade.RentCatalog(c.Request.Context(), CurrentBot(c), queryID(c, "country"), queryInt(c, "hours", defaultRentHours))
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.RentCatalogResponse{Countries: view.Countries, Services: view.Offers}, nil)
}

// Create handles GET /api/rent/create.
func (h *RentHandler) Create(c *gin.Context) {
	service := c.Query("service")
	if service == "" {
		c.JSON(http.StatusOK, dto.Fail("service is required"))
		return
	}
	rent, err := h.facade.CreateRent(c.Request.Context(), CurrentBot(c), CurrentUser(c), service,
		queryID(c, "country"), queryInt(c, "hours", defaultRentHours))
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewRentResponse(rent), nil)
}

// Get handles GET /api/rent/get.
func (h *RentHandler) Get(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	rent, err := h.facade.GetRent(c.Request.Context(), id)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewRentResponse(rent), nil)
}

// List handles GET /api/rent/list.
func (h *RentHandler) List(c *gin.Context) {
	bot := CurrentBot(c)
	user := CurrentUser(c)
	rents, err := h.facade.Rents(c.Request.Context(), bot.ID, user.TelegramID)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewRentList(rents), nil)
}

// Close handles GET /api/rent/close.
func (h *RentHandler) Close(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	rent, err := h.facade.CloseRent(c.Request.Context(), CurrentBot(c), CurrentUser(c), id)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewRentResponse(rent), nil)
}

// Confirm handles GET /api/rent/confirm.
func (h *RentHandler) Confirm(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	rent, err := h.facade.ConfirmRent(c.Request.Context(), CurrentBot(c), id)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewRentResponse(rent), nil)
}

// ContinuePrice handles GET /api/rent/continuePrice.
func (h *RentHandler) ContinuePrice(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	price, err := h.facade.ContinueRentPrice(c.Request.Context(), CurrentBot(c), id, queryInt(c, "hours", defaultRentHours))
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, gin.H{"price": price}, nil)
}

// Continue handles GET /api/rent/continue.
func (h *RentHandler) Continue(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	rent, err := h.facade.ContinueRent(c.Request.Context(), CurrentBot(c), CurrentUser(c), id, queryInt(c, "hours", defaultRentHours))
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewRentResponse(rent), nil)
}

// Webhook handles POST /api/rent/updateSmsRent, pushed by the upstream
// when a rented number receives an SMS. The upstream retries on
// non-200, so storage errors are the only thing reported as failures.
func (h *RentHandler) Webhook(c *gin.Context) {
	var req dto.RentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RentID == 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02 15:04:05", req.SMS.Date)
	if err != nil {
		date = time.Now()
	}
	if err := h.facade.UpdateRentSMS(c.Request.Context(), req.RentID, req.SMS.Text, req.SMS.SMSID, date); err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, gin.H{"status": "SUCCESS"}, nil)
}
