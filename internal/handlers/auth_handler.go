package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
)

type AuthHandler struct {
	authService  *services.AuthService
	metrics      *metrics.Metrics
	cookieSecure bool
}

func NewAuthHandler(authService *services.AuthService, m *metrics.Metrics, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if ferr := bind(c, &req); ferr != nil {
		return failWith(c, ferr)
	}

	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return fail(c, fiber.StatusBadRequest, "Email already registered")
		case errors.Is(err, services.ErrPasswordTooLong):
			return fail(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrStorageTimeout):
			return fail(c, fiber.StatusServiceUnavailable, err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		if errors.Is(err, services.ErrStorageTimeout) {
			return fail(c, fiber.StatusServiceUnavailable, err.Error())
		}
		return err
	}
	return c.JSON(users)
}

// Login returns both tokens in the body and also sets them as HttpOnly
// cookies so browser clients need no token handling of their own.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ferr := bind(c, &req); ferr != nil {
		return failWith(c, ferr)
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			h.metrics.AuthFailure("invalid_credentials")
			return fail(c, fiber.StatusBadRequest, "Incorrect email or password")
		case errors.Is(err, services.ErrAccountDisabled):
			h.metrics.AuthFailure("account_disabled")
			return fail(c, fiber.StatusBadRequest, "Account is disabled")
		case errors.Is(err, services.ErrStorageTimeout):
			return fail(c, fiber.StatusServiceUnavailable, err.Error())
		}
		return err
	}

	h.setCookie(c, auth.AccessCookie, result.AccessToken, result.AccessTTL)
	h.setCookie(c, auth.RefreshCookie, result.RefreshToken, result.RefreshTTL)

	return c.JSON(dto.LoginResponse{
		Message:      "Login successful",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User: dto.LoginUserSummary{
			ID:       result.User.ID,
			FullName: result.User.FullName,
			Email:    result.User.Email,
		},
	})
}

// Refresh reads the refresh token from the JSON body or, failing that, from
// the refresh_token cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(auth.RefreshCookie)
	}

	access, err := h.authService.Refresh(c.UserContext(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			h.metrics.AuthFailure("invalid_refresh_token")
			return fail(c, fiber.StatusUnauthorized, "Could not validate credentials")
		case errors.Is(err, services.ErrAccountDisabled):
			h.metrics.AuthFailure("account_disabled")
			return fail(c, fiber.StatusUnauthorized, "Account is disabled")
		case errors.Is(err, services.ErrStorageTimeout):
			return fail(c, fiber.StatusServiceUnavailable, err.Error())
		}
		return err
	}

	h.setCookie(c, auth.AccessCookie, access, h.authService.AccessTTL())
	return c.JSON(dto.RefreshResponse{AccessToken: access})
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
