package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deshimart/internal/config"
	"github.com/example/deshimart/internal/middleware"
	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/utils"
)

func testApp(cfg *config.Config) (*fiber.App, *models.Principal) {
	var captured models.Principal
	app := fiber.New()
	app.Use(middleware.ResolvePrincipal(cfg))
	app.Get("/open", func(c *fiber.Ctx) error {
		captured, _ = middleware.GetPrincipal(c)
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/user", middleware.RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/admin", middleware.RequireAuth(), middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, &captured
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		GuestCookie: 30 * 24 * time.Hour,
	}
}

func TestResolvePrincipal_MintsGuestCookie(t *testing.T) {
	app, captured := testApp(testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var guestCookie string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.GuestCookieName {
			guestCookie = cookie.Value
			assert.True(t, cookie.HttpOnly)
		}
	}
	require.NotEmpty(t, guestCookie)
	assert.Equal(t, guestCookie, captured.GuestToken)
	assert.False(t, captured.IsUser())
}

func TestResolvePrincipal_ReusesGuestCookie(t *testing.T) {
	app, captured := testApp(testConfig())

	req := httptest.NewRequest("GET", "/open", nil)
	req.AddCookie(&http.Cookie{Name: middleware.GuestCookieName, Value: "existing-guest"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "existing-guest", captured.GuestToken)

	// No replacement cookie is issued for a returning guest.
	for _, cookie := range resp.Cookies() {
		assert.NotEqual(t, middleware.GuestCookieName, cookie.Name)
	}
}

func TestResolvePrincipal_ValidTokenYieldsUser(t *testing.T) {
	cfg := testConfig()
	app, captured := testApp(cfg)

	userID := uuid.New()
	token, err := utils.GenerateToken(cfg.JWTSecret, userID, "user@example.com", models.RoleUser, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/open", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.True(t, captured.IsUser())
	assert.Equal(t, userID, captured.UserID)
	assert.Equal(t, "user@example.com", captured.Email)
}

func TestResolvePrincipal_BearerHeader(t *testing.T) {
	cfg := testConfig()
	app, captured := testApp(cfg)

	userID := uuid.New()
	token, err := utils.GenerateToken(cfg.JWTSecret, userID, "api@example.com", models.RoleUser, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, captured.UserID)
}

func TestResolvePrincipal_InvalidTokenFallsBackToGuest(t *testing.T) {
	app, captured := testApp(testConfig())

	req := httptest.NewRequest("GET", "/open", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: "garbage"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, captured.IsUser())
	assert.NotEmpty(t, captured.GuestToken)
}

func TestRequireAuth_RejectsGuests(t *testing.T) {
	app, _ := testApp(testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/user", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin_RejectsRegularUser(t *testing.T) {
	cfg := testConfig()
	app, _ := testApp(cfg)

	token, err := utils.GenerateToken(cfg.JWTSecret, uuid.New(), "user@example.com", models.RoleUser, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	cfg := testConfig()
	app, _ := testApp(cfg)

	token, err := utils.GenerateToken(cfg.JWTSecret, uuid.New(), "admin@example.com", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
