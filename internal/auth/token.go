package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Payload is the identity snapshot a token carries.
type Payload struct {
	UserID   uint
	Email    string
	FullName string
	IsAdmin  bool
	IsActive bool
}

// Claims is the signed form of a Payload plus expiry.
type Claims struct {
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	IsAdmin  bool      `json:"is_admin"`
	IsActive bool      `json:"is_active"`
	Kind     TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return uint(id), nil
}

func (c *Claims) Payload() Payload {
	id, _ := c.UserID()
	return Payload{
		UserID:   id,
		Email:    c.Email,
		FullName: c.FullName,
		IsAdmin:  c.IsAdmin,
		IsActive: c.IsActive,
	}
}

// TokenService issues and validates HMAC-signed JWTs. It keeps no session
// state: a token is valid while its signature matches and exp is in the future.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
	parser *jwt.Parser
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, mostly for tests that need to step past expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret, algorithm string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q: only HS256, HS384 and HS512 are allowed", algorithm)
	}

	s := &TokenService{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
		jwt.WithExpirationRequired(),
	)
	return s, nil
}

func (s *TokenService) IssueAccess(p Payload, ttl time.Duration) (string, error) {
	return s.issue(p, KindAccess, s.now().Add(ttl))
}

func (s *TokenService) IssueRefresh(p Payload, ttl time.Duration) (string, error) {
	return s.issue(p, KindRefresh, s.now().Add(ttl))
}

func (s *TokenService) issue(p Payload, kind TokenKind, expiresAt time.Time) (string, error) {
	claims := Claims{
		Email:    p.Email,
		FullName: p.FullName,
		IsAdmin:  p.IsAdmin,
		IsActive: p.IsActive,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Validate checks algorithm, signature and expiry. exp must be strictly after
// now. Failures are ErrExpiredToken or ErrInvalidToken.
func (s *TokenService) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateAccess is Validate restricted to access tokens.
func (s *TokenService) ValidateAccess(token string) (*Claims, error) {
	return s.validateKind(token, KindAccess)
}

// ValidateRefresh is Validate restricted to refresh tokens.
func (s *TokenService) ValidateRefresh(token string) (*Claims, error) {
	return s.validateKind(token, KindRefresh)
}

func (s *TokenService) validateKind(token string, kind TokenKind) (*Claims, error) {
	claims, err := s.Validate(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, kind, claims.Kind)
	}
	return claims, nil
}

// Expire re-signs a still-valid token with exp set to now, so any later
// Validate rejects it. Tokens already handed out are unaffected.
func (s *TokenService) Expire(token string) (string, error) {
	claims, err := s.Validate(token)
	if err != nil {
		return "", err
	}
	return s.issue(claims.Payload(), claims.Kind, s.now())
}
