package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/models"
)

// LoginResult is what a successful login hands back to the HTTP layer.
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

type AuthService struct {
	db         *gorm.DB
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(db *gorm.DB, cfg *config.Config, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	return &AuthService{
		db:         db,
		hasher:     hasher,
		tokens:     tokens,
		accessTTL:  cfg.AccessTokenExpiry,
		refreshTTL: cfg.RefreshTokenExpiry,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: hash,
		FullName: req.FullName,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, storageError(ctx, "create user", err)
	}
	return &user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, storageError(ctx, "list users", err)
	}
	return users, nil
}

// Login checks the password before the account state, so a disabled account
// is only revealed to someone who already knows its password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageError(ctx, "find user by email", err)
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	payload := payloadFor(&user)
	access, err := s.tokens.IssueAccess(payload, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(payload, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         &user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    s.accessTTL,
		RefreshTTL:   s.refreshTTL,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The claims are
// rebuilt from the live user row so role and state changes take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", fmt.Errorf("%w: %w", auth.ErrUnauthorized, auth.ErrMissingToken)
	}
	claims, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
	}
	id, err := claims.UserID()
	if err != nil {
		return "", fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrAccountDisabled
	}

	return s.tokens.IssueAccess(payloadFor(user), s.accessTTL)
}

// AccessTTL is the lifetime of access tokens issued by Login and Refresh.
func (s *AuthService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError(ctx, "find user by id", err)
	}
	return &user, nil
}

// SetAdmin grants or revokes admin rights. Only the operator CLI calls it.
func (s *AuthService) SetAdmin(ctx context.Context, email string, admin bool) error {
	return s.setFlag(ctx, email, "is_admin", admin)
}

// SetActive enables or disables an account. A disabled account can no longer
// log in, refresh or pass the admin gate.
func (s *AuthService) SetActive(ctx context.Context, email string, active bool) error {
	return s.setFlag(ctx, email, "is_active", active)
}

func (s *AuthService) setFlag(ctx context.Context, email, column string, value bool) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update(column, value)
	if result.Error != nil {
		return storageError(ctx, "update user "+column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func payloadFor(u *models.User) auth.Payload {
	return auth.Payload{
		UserID:   u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		IsAdmin:  u.IsAdmin,
		IsActive: u.IsActive,
	}
}
