package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/deshimart/internal/config"
	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/utils"
)

const principalContextKey = "principal"

// Cookie names carried by the storefront.
const (
	AuthCookieName  = "auth_token"
	GuestCookieName = "guest_session_id"
)

// ResolvePrincipal resolves the acting principal for every request: a
// valid session token yields a user principal, an existing guest cookie
// is reused as-is, and otherwise a fresh guest session is minted and
// attached to the response. It never fails.
func ResolvePrincipal(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := sessionToken(c); token != "" {
			if id, claims, err := utils.ParseToken(cfg.JWTSecret, token); err == nil {
				c.Locals(principalContextKey, models.UserPrincipal(id, claims.Email, claims.Role))
				return c.Next()
			}
		}

		guestToken := c.Cookies(GuestCookieName)
		if guestToken == "" {
			guestToken = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     GuestCookieName,
				Value:    guestToken,
				MaxAge:   int(cfg.GuestCookie.Seconds()),
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}

		c.Locals(principalContextKey, models.GuestPrincipal(guestToken))
		return c.Next()
	}
}

// RequireAuth rejects requests whose principal is not an authenticated user.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p, ok := GetPrincipal(c); !ok || !p.IsUser() {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests whose principal is not an administrator.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok || !p.IsUser() {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		if !p.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

// GetPrincipal extracts the resolved principal from the request context.
func GetPrincipal(c *fiber.Ctx) (models.Principal, bool) {
	value := c.Locals(principalContextKey)
	if value == nil {
		return models.Principal{}, false
	}

	if p, ok := value.(models.Principal); ok {
		return p, true
	}

	return models.Principal{}, false
}

func sessionToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(AuthCookieName); cookie != "" {
		return cookie
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
