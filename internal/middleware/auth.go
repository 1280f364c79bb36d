package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
)

const (
	localClaims = "claims"
	localUser   = "user"
)

// Authenticated requires a valid access token and stores its claims in
// c.Locals("claims").
func Authenticated(resolver *auth.Resolver, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := resolver.Resolve(c)
		if err != nil {
			return unauthorized(c, err, m)
		}
		if id, err := claims.UserID(); err == nil {
			logging.SetUserID(c.UserContext(), id)
		}
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// AdminRequired resolves the token to the live user and lets only active
// admins through. The user is stored in c.Locals("user").
func AdminRequired(resolver *auth.Resolver, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolver.ResolveAdmin(c.UserContext(), c)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrUnauthorized):
			return unauthorized(c, err, m)
		case errors.Is(err, auth.ErrNotFound):
			m.AuthFailure("user_not_found")
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin not found",
			})
		case errors.Is(err, services.ErrStorageTimeout):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return err
		}

		logging.SetUserID(c.UserContext(), user.ID)
		if err := auth.RequireAdmin(user); err != nil {
			m.AuthFailure("forbidden")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "You are not authorized to perform this action",
			})
		}

		c.Locals(localUser, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AdminRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}

// CurrentClaims returns the claims stored by Authenticated, or nil.
func CurrentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(localClaims).(*auth.Claims)
	return claims
}

func unauthorized(c *fiber.Ctx, err error, m *metrics.Metrics) error {
	message := "Could not validate credentials"
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		m.AuthFailure("missing_token")
		message = "Access token not found"
	case errors.Is(err, auth.ErrExpiredToken):
		m.AuthFailure("expired_token")
	default:
		m.AuthFailure("invalid_token")
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
