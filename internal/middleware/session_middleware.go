package middleware

import (
	"crypto/subtle"
	"strings"

	"asicshop/internal/models"
	"asicshop/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// HeaderSessionID carries the session token when no Authorization header
	// is sent. It is echoed back when the server mints a token.
	HeaderSessionID = "session-id"

	// HeaderAdminToken authorizes back-office requests.
	HeaderAdminToken = "X-Admin-Token"

	localSession = "session"
)

// Session resolves the request's session token and stores the session in the
// Fiber context. Requests without a known token get a new anonymous session.
func Session(registry session.Registry, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, created, err := registry.Resolve(c.UserContext(), tokenFrom(c))
		if err != nil {
			log.Error("session lookup failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Session store unavailable",
			})
		}
		if created {
			c.Set(HeaderSessionID, sess.Token)
		}
		c.Locals(localSession, sess)
		return c.Next()
	}
}

// tokenFrom reads "Authorization: Bearer <token>" and falls back to the
// session-id header.
func tokenFrom(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.Get(HeaderSessionID))
}

// CurrentSession returns the session stored by Session.
func CurrentSession(c *fiber.Ctx) session.Session {
	sess, _ := c.Locals(localSession).(session.Session)
	return sess
}

// CurrentOwner returns the cart owner of the request: the user when one is
// attached to the session, otherwise the session itself.
func CurrentOwner(c *fiber.Ctx) models.Owner {
	sess := CurrentSession(c)
	return models.Owner{UserID: sess.UserID, SessionID: sess.Token}
}

// AuthRequired rejects requests whose session has no user.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c).Anonymous() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		return c.Next()
	}
}

// AdminRequired checks the X-Admin-Token header against token. An empty
// token disables the guarded routes.
func AdminRequired(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(HeaderAdminToken)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin token required",
			})
		}
		return c.Next()
	}
}
