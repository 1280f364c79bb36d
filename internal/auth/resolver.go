package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/models"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Request is the part of an inbound request the resolver reads.
// *fiber.Ctx satisfies it.
type Request interface {
	Get(key string, defaultValue ...string) string
	Cookies(key string, defaultValue ...string) string
}

// IdentityStore loads the live user behind a token subject. It returns
// ErrNotFound when the user no longer exists.
type IdentityStore interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// Resolver turns request credentials into claims or a live user.
type Resolver struct {
	tokens *TokenService
	users  IdentityStore
}

func NewResolver(tokens *TokenService, users IdentityStore) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// TokenFromRequest returns the Authorization header value (with or without a
// Bearer scheme) or, when the header is absent, the access_token cookie.
func TokenFromRequest(req Request) string {
	if header := strings.TrimSpace(req.Get("Authorization")); header != "" {
		if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return header
	}
	return req.Cookies(AccessCookie)
}

// Resolve validates the request's access token. Token failures are wrapped in
// ErrUnauthorized; the original ErrMissingToken, ErrInvalidToken or
// ErrExpiredToken stays reachable through errors.Is.
func (r *Resolver) Resolve(req Request) (*Claims, error) {
	token := TokenFromRequest(req)
	if token == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrMissingToken)
	}

	claims, err := r.tokens.ValidateAccess(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return claims, nil
}

// ResolveAdmin resolves the token and loads the user it names. The returned
// user reflects current storage, not the claims baked into the token.
func (r *Resolver) ResolveAdmin(ctx context.Context, req Request) (*models.User, error) {
	claims, err := r.Resolve(req)
	if err != nil {
		return nil, err
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// RequireAdmin allows only active admins through.
func RequireAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin || !user.IsActive {
		return ErrForbidden
	}
	return nil
}
