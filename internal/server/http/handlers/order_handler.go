package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/numrent/activate/internal/server/http/dto"
)

// OrderHandler serves the activation order actions.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles GET /api/createOrder.
func (h *OrderHandler) Create(c *gin.Context) {
	service := c.Query("service")
	if service == "" {
		c.JSON(http.StatusOK, dto.Fail("service is required"))
		return
	}
	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentBot(c), CurrentUser(c), service, queryID(c, "country"))
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewOrderResponse(order), nil)
}

// CreateMulti handles GET /api/createMulti. Services arrive as a
// comma-separated list sharing one number.
func (h *OrderHandler) CreateMulti(c *gin.Context) {
	raw := strings.Split(c.Query("services"), ",")
	services := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	if len(services) == 0 {
		c.JSON(http.StatusOK, dto.Fail("services are required"))
		return
	}
	orders, err := h.facade.CreateMulti(c.Request.Context(), CurrentBot(c), CurrentUser(c), services, queryID(c, "country"))
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewOrderList(orders), nil)
}

// Get handles GET /api/getOrder. Reading an order reconciles it against
// the upstream first, so the reply always reflects live state.
func (h *OrderHandler) Get(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	order, err := h.facade.PollOrder(c.Request.Context(), CurrentBot(c), CurrentUser(c), id)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewOrderResponse(order), nil)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	bot := CurrentBot(c)
	user := CurrentUser(c)
	orders, err := h.facade.Orders(c.Request.Context(), bot.ID, user.TelegramID)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewOrderList(orders), nil)
}

// Close handles GET /api/closeOrder.
func (h *OrderHandler) Close(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	order, err := h.facade.CloseOrder(c.Request.Context(), CurrentBot(c), CurrentUser(c), id)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewOrderResponse(order), nil)
}

// Confirm handles GET /api/confirmOrder.
func (h *OrderHandler) Confirm(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	order, err := h.facade.ConfirmOrder(c.Request.Context(), CurrentBot(c), id)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewOrderResponse(order), nil)
}

// Second handles GET /api/secondSms.
func (h *OrderHandler) Second(c *gin.Context) {
	id := queryID(c, "id")
	if id == 0 {
		c.JSON(http.StatusOK, dto.Fail("id is required"))
		return
	}
	order, err := h.facade.SecondSMS(c.Request.Context(), CurrentBot(c), id)
	if err != nil {
		respond(c, nil, err)
		return
	}
	respond(c, dto.NewOrderResponse(order), nil)
}
