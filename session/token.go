package session

import (
	"errors"
	"time"

	"jobboard/authority"
	"jobboard/bizerror"

	"github.com/fundwit/go-commons/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"

	tokenIssuer = "jobboard"
)

// Claims is the payload of both token kinds. Access tokens carry the
// identity and the expanded grant snapshot; refresh tokens carry the
// subject only and mint the next token pair.
type Claims struct {
	Name  string           `json:"name,omitempty"`
	Email string           `json:"email,omitempty"`
	Kind  string           `json:"kind"`
	Perms authority.Grants `json:"perms,omitempty"`

	jwt.RegisteredClaims
}

func (c *Claims) SessionIdentity() Identity {
	id, _ := types.ParseID(c.Subject)
	return Identity{ID: id, Name: c.Name, Email: c.Email}
}

type TokenIssuer struct {
	cfg *AuthConfig
}

func NewTokenIssuer(cfg *AuthConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

func (i *TokenIssuer) IssueAccessToken(identity Identity, grants authority.Grants) (string, error) {
	return i.sign(identity, grants, TokenKindAccess, []byte(i.cfg.AccessSecret), i.cfg.AccessTokenExpiration)
}

func (i *TokenIssuer) IssueRefreshToken(identity Identity) (string, error) {
	return i.sign(Identity{ID: identity.ID}, nil, TokenKindRefresh, []byte(i.cfg.RefreshSecret), i.cfg.RefreshTokenExpiration)
}

func (i *TokenIssuer) VerifyAccessToken(token string) (*Claims, error) {
	return verify(token, TokenKindAccess, []byte(i.cfg.AccessSecret))
}

func (i *TokenIssuer) VerifyRefreshToken(token string) (*Claims, error) {
	return verify(token, TokenKindRefresh, []byte(i.cfg.RefreshSecret))
}

func (i *TokenIssuer) sign(identity Identity, grants authority.Grants, kind string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  identity.Name,
		Email: identity.Email,
		Kind:  kind,
		Perms: grants,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(secret)
}

func verify(token, expectedKind string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, bizerror.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, bizerror.ErrExpiredToken
		}
		return nil, bizerror.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Kind != expectedKind {
		return nil, bizerror.ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, bizerror.ErrInvalidToken
	}
	return claims, nil
}
