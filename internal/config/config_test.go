package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, 8, cfg.DBMaxOpenConns)
	assert.Equal(t, "*", cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "2")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("API_PREFIX", "/api/v1/")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "chatty")

	cfg := Load()

	assert.Equal(t, 8, cfg.DBMaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "missing secret", cfg: Config{DBDriver: "postgres", DBPassword: "pw", JWTAlgorithm: "HS256"}, wantErr: "JWT_SECRET"},
		{name: "missing db password", cfg: Config{DBDriver: "postgres", JWTSecret: "x", JWTAlgorithm: "HS256"}, wantErr: "DB_PASSWORD"},
		{name: "unknown driver", cfg: Config{DBDriver: "mysql", JWTSecret: "x", JWTAlgorithm: "HS256"}, wantErr: "DB_DRIVER"},
		{name: "asymmetric algorithm", cfg: Config{DBDriver: "sqlite", JWTSecret: "x", JWTAlgorithm: "RS256"}, wantErr: "JWT_ALGORITHM"},
		{name: "unknown algorithm", cfg: Config{DBDriver: "sqlite", JWTSecret: "x", JWTAlgorithm: "none"}, wantErr: "JWT_ALGORITHM"},
		{name: "sqlite needs no password", cfg: Config{DBDriver: "sqlite", JWTSecret: "x", JWTAlgorithm: "HS256"}},
		{name: "hs512", cfg: Config{DBDriver: "postgres", DBPassword: "pw", JWTSecret: "x", JWTAlgorithm: "HS512"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
