package session

import (
	"errors"
	"os"
	"time"
)

// AuthConfig is established once at process start and treated as immutable
// afterwards. It is passed explicitly into the pieces that need it, never
// read from ambient state after boot.
type AuthConfig struct {
	// AccessSecret and RefreshSecret are distinct so a refresh token can
	// never be replayed as an access token.
	AccessSecret  string
	RefreshSecret string

	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration

	// ProtectedRoleName names the one role that cannot be deleted.
	ProtectedRoleName string
	// ProtectedAccountEmail names the one account that cannot be deleted.
	ProtectedAccountEmail string
	// DefaultRoleName is assigned to self-registered users.
	DefaultRoleName string
}

func ParseAuthConfigFromEnv() (*AuthConfig, error) {
	cfg := AuthConfig{
		AccessSecret:           os.Getenv("AUTH_ACCESS_SECRET"),
		RefreshSecret:          os.Getenv("AUTH_REFRESH_SECRET"),
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		ProtectedRoleName:      "SUPER_ADMIN",
		ProtectedAccountEmail:  "admin@jobboard.local",
		DefaultRoleName:        "NORMAL_USER",
	}
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("environment variables AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must be set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must differ")
	}

	if v := os.Getenv("AUTH_ACCESS_TOKEN_EXPIRATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, err
		}
		cfg.AccessTokenExpiration = d
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN_EXPIRATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, err
		}
		cfg.RefreshTokenExpiration = d
	}
	if v := os.Getenv("ADMIN_ROLE_NAME"); v != "" {
		cfg.ProtectedRoleName = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.ProtectedAccountEmail = v
	}
	if v := os.Getenv("DEFAULT_ROLE_NAME"); v != "" {
		cfg.DefaultRoleName = v
	}
	return &cfg, nil
}
