package middleware

import (
	"context"
	"errors"
	"strings"

	"coldcommand/repository"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "userID"
	localOrgID  = "orgID"
)

// OrgResolver maps an authenticated user to the organization they act for.
type OrgResolver interface {
	OrganizationForUser(ctx context.Context, userID string) (string, error)
}

// Protected accepts a bearer token or the access_token cookie, then resolves
// the caller's organization. Handlers read it with OrgID.
func Protected(resolver OrgResolver, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Try to get token from Authorization header first
		var token string
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization format")
			}
			token = tokenParts[1]
		} else {
			// Fall back to cookie if header not present
			token = c.Cookies("access_token")
			if token == "" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization required")
			}
		}

		claims, err := utils.ParseJWTToken(token, secret)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		orgID, err := resolver.OrganizationForUser(c.UserContext(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "No organization linked to this account")
		}
		if err != nil {
			utils.LogError("org_resolution_failed", err, map[string]interface{}{
				"user_id": claims.UserID,
			})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve organization")
		}

		SetIdentity(c, claims.UserID, orgID)
		return c.Next()
	}
}

// SetIdentity stores the caller for OrgID and UserID.
func SetIdentity(c *fiber.Ctx, userID, orgID string) {
	c.Locals(localUserID, userID)
	c.Locals(localOrgID, orgID)
}

// OrgID returns the organization resolved by Protected, or "".
func OrgID(c *fiber.Ctx) string {
	id, _ := c.Locals(localOrgID).(string)
	return id
}

// UserID returns the user resolved by Protected, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}
