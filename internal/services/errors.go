package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
	ErrUserNotFound        = auth.ErrNotFound
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrSlugTaken           = errors.New("an item with this slug already exists")
	ErrInvalidSlug         = errors.New("name must contain at least one letter or digit")
	ErrSKUTaken            = errors.New("a variation with this sku already exists")
	ErrInvalidPrice        = errors.New("prices must not be negative and a discount must not exceed the price")
	ErrStorageTimeout      = errors.New("request timed out waiting for storage, try again later")
)

// storageError turns an unexpected database failure into something a handler
// can map. A request whose deadline passed, whether queued for a connection
// or inside a slow query, becomes ErrStorageTimeout; anything else is logged
// and wrapped.
func storageError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		slog.WarnContext(ctx, "storage call exceeded request deadline", "op", op)
		return ErrStorageTimeout
	}
	slog.ErrorContext(ctx, "storage operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}
