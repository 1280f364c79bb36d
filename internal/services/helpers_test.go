package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/testutil"
)

type authFixture struct {
	db     *gorm.DB
	svc    *services.AuthService
	tokens *auth.TokenService
	now    time.Time
}

func (f *authFixture) clock() time.Time { return f.now }

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		db:  testutil.NewDB(t),
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	tokens, err := auth.NewTokenService("test-secret", "HS256", auth.WithClock(f.clock))
	require.NoError(t, err)
	f.tokens = tokens

	cfg := &config.Config{
		AccessTokenExpiry:  30 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	f.svc = services.NewAuthService(f.db, cfg, auth.NewPasswordHasher(bcrypt.MinCost), tokens)
	return f
}

func (f *authFixture) register(t *testing.T, email, password string) *models.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Test User",
	})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T { return &v }

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	svc := services.NewCategoryService(db)
	c, err := svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}

func seedSubcategory(t *testing.T, db *gorm.DB, categoryID uint, name string) *models.Subcategory {
	t.Helper()
	svc := services.NewSubcategoryService(db)
	s, err := svc.Create(context.Background(), &dto.CreateSubcategoryRequest{CategoryID: categoryID, Name: name})
	require.NoError(t, err)
	return s
}
