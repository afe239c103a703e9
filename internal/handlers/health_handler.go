package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping() error
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// RegisterRoutes registers GET /health.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth reports service status and store reachability.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status, code, storeState := "healthy", fiber.StatusOK, "up"
	if err := h.store.Ping(); err != nil {
		status, code, storeState = "degraded", fiber.StatusServiceUnavailable, "down"
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
		"store":  storeState,
	})
}
