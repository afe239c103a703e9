package handlers

import (
	"asicshop/internal/middleware"
	"asicshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProfileHandler handles profile updates of the signed-in user.
type ProfileHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(authService *services.AuthService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{authService: authService, log: log}
}

// RegisterRoutes registers the profile routes with the Fiber app.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Put("/profile", middleware.AuthRequired(), h.HandleUpdateProfile)
}

// HandleUpdateProfile merges the submitted fields into the user's profile.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.authService.UpdateProfile(*middleware.CurrentSession(c).UserID, req)
	if err != nil {
		return respondError(c, h.log, err, "User")
	}
	return c.JSON(user)
}
