package handlers

import (
	"asicshop/internal/middleware"
	"asicshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UpdateStatusRequest is the body of PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service    *services.OrderService
	adminToken string
	log        *zap.Logger
}

// NewOrderHandler creates a new OrderHandler. adminToken guards the status
// endpoint; when empty that endpoint always answers 403.
func NewOrderHandler(service *services.OrderService, adminToken string, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:    service,
		adminToken: adminToken,
		log:        log,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", middleware.AuthRequired(), h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", middleware.AdminRequired(h.adminToken), h.HandleUpdateOrderStatus)
}

// HandleCreateOrder checks out the current cart.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.PlaceOrderInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), req, middleware.CurrentOwner(c))
	if err != nil {
		return respondError(c, h.log, err, "Order")
	}
	return c.JSON(order)
}

// HandleGetOrders lists the signed-in user's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListForUser(*middleware.CurrentSession(c).UserID)
	if err != nil {
		return respondError(c, h.log, err, "Order")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns an order with its items to its owner.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err, "Order")
	}

	order, err := h.service.Get(id, middleware.CurrentOwner(c))
	if err != nil {
		return respondError(c, h.log, err, "Order")
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err, "Order")
	}
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := services.ValidateStruct(req); err != nil {
		return respondError(c, h.log, err, "Order")
	}

	order, err := h.service.UpdateStatus(id, req.Status)
	if err != nil {
		return respondError(c, h.log, err, "Order")
	}
	return c.JSON(order)
}
