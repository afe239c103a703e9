package handlers

import (
	"asicshop/internal/middleware"
	"asicshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AddToCartRequest is the body of POST /cart.
type AddToCartRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  *int `json:"quantity" validate:"omitempty,min=1"`
}

// UpdateCartRequest is the body of PUT /cart/:id.
type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartHandler handles HTTP requests for the current owner's cart.
type CartHandler struct {
	service *services.CartService
	log     *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{service: service, log: log}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Put("/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
}

// HandleGetCart returns the cart lines with total and count.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	summary, err := h.service.Summary(middleware.CurrentOwner(c))
	if err != nil {
		return respondError(c, h.log, err, "Cart")
	}
	return c.JSON(summary)
}

// HandleAddItem adds a product to the cart, merging with an existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := services.ValidateStruct(req); err != nil {
		return respondError(c, h.log, err, "Product")
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.service.AddItem(middleware.CurrentOwner(c), req.ProductID, quantity)
	if err != nil {
		return respondError(c, h.log, err, "Product")
	}
	return c.JSON(item)
}

// HandleUpdateItem replaces the quantity of a cart item.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err, "Cart item")
	}
	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := services.ValidateStruct(req); err != nil {
		return respondError(c, h.log, err, "Cart item")
	}

	item, err := h.service.SetQuantity(id, req.Quantity)
	if err != nil {
		return respondError(c, h.log, err, "Cart item")
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a cart item.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err, "Cart item")
	}
	if err := h.service.Remove(id); err != nil {
		return respondError(c, h.log, err, "Cart item")
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(middleware.CurrentOwner(c)); err != nil {
		return respondError(c, h.log, err, "Cart")
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
