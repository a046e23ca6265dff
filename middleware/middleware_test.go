package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"coldcommand/repository"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeResolver struct {
	orgs map[string]string
	err  error
}

func (f fakeResolver) OrganizationForUser(_ context.Context, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	org, ok := f.orgs[userID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return org, nil
}

func protectedApp(resolver OrgResolver) *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(resolver, testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": UserID(c), "org": OrgID(c)})
	})
	return app
}

func token(t *testing.T, userID, secret string) string {
	t.Helper()
	tok, err := utils.GenerateJWTToken(userID, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestProtected(t *testing.T) {
	resolver := fakeResolver{orgs: map[string]string{"u1": "org-1"}}

	tests := []struct {
		name   string
		setup  func(r *fiberRequest)
		status int
	}{
		{"no credentials", func(r *fiberRequest) {}, fiber.StatusUnauthorized},
		{"malformed header", func(r *fiberRequest) { r.header = "Token abc" }, fiber.StatusUnauthorized},
		{"wrong secret", func(r *fiberRequest) { r.header = "Bearer " + token(t, "u1", "other") }, fiber.StatusUnauthorized},
		{"user without organization", func(r *fiberRequest) { r.header = "Bearer " + token(t, "u2", testSecret) }, fiber.StatusForbidden},
		{"bearer token", func(r *fiberRequest) { r.header = "Bearer " + token(t, "u1", testSecret) }, fiber.StatusOK},
		{"cookie", func(r *fiberRequest) { r.cookie = token(t, "u1", testSecret) }, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fr fiberRequest
			tt.setup(&fr)
			req := httptest.NewRequest("GET", "/me", nil)
			if fr.header != "" {
				req.Header.Set("Authorization", fr.header)
			}
			if fr.cookie != "" {
				req.Header.Set("Cookie", "access_token="+fr.cookie)
			}
			resp, err := protectedApp(resolver).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

type fiberRequest struct {
	header string
	cookie string
}

func TestProtectedResolverFailure(t *testing.T) {
	app := protectedApp(fakeResolver{err: errors.New("db down")})
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "u1", testSecret))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS())
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", resp.Header.Get("Access-Control-Max-Age"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "If-Match")

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), "ETag")
}

func TestSequenceWriteLimiter(t *testing.T) {
	app := fiber.New()
	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }
	withOrg := func(c *fiber.Ctx) error {
		c.Locals(localOrgID, c.Get("X-Org"))
		return c.Next()
	}
	limit := SequenceWriteLimiter(2, nil)
	app.Put("/campaigns/:id/sequences", withOrg, limit, handler)
	app.Get("/campaigns/:id/sequences", withOrg, limit, handler)

	send := func(method, org, campaign string) int {
		req := httptest.NewRequest(method, "/campaigns/"+campaign+"/sequences", nil)
		req.Header.Set("X-Org", org)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusNoContent, send("PUT", "org-1", "c1"))
	assert.Equal(t, fiber.StatusNoContent, send("PUT", "org-1", "c1"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("PUT", "org-1", "c1"))

	// reads and other campaigns have their own budget
	assert.Equal(t, fiber.StatusNoContent, send("GET", "org-1", "c1"))
	assert.Equal(t, fiber.StatusNoContent, send("PUT", "org-1", "c2"))
	assert.Equal(t, fiber.StatusNoContent, send("PUT", "org-2", "c1"))
}
