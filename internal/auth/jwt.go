// Package auth issues and checks the bearer tokens that guard write
// endpoints.
package auth

import (
	"fmt"
	"time"

	"spacetime-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	// RoleOperator may create spaces and record events.
	RoleOperator Role = "operator"
	// RoleViewer may only read.
	RoleViewer Role = "viewer"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOperator, RoleViewer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

func NewTokenIssuer(cfg config.AuthConfig) (*TokenIssuer, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters long")
	}
	return &TokenIssuer{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		expiration: cfg.TokenExpiration,
		now:        time.Now,
	}, nil
}

func (ti *TokenIssuer) GenerateToken(subject string, role Role) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return "", err
	}

	now := ti.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("cannot sign token: %w", err)
	}
	return signed, nil
}

func (ti *TokenIssuer) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	},
		jwt.WithIssuer(ti.issuer),
		jwt.WithTimeFunc(ti.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if _, err := ParseRole(string(claims.Role)); err != nil {
		return nil, err
	}
	return claims, nil
}
