// Package auth resolves the user behind a request from an HS256 bearer token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PabloGalante/innerguide/internal/domain"
)

var (
	ErrNoToken       = errors.New("no bearer token")
	ErrNotConfigured = errors.New("jwt secret not configured")
)

const issuer = "innerguide"

type ctxKey struct{}

// WithToken stores a raw bearer token in the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(ctxKey{}).(string)
	return tok
}

// ExtractToken extracts the JWT token from an Authorization header value.
// Supports "Bearer <token>" format.
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("empty authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty token")
	}

	return token, nil
}

// Claims carries the user id in "sub".
type Claims struct {
	UserID string `json:"sub"`
	jwt.RegisteredClaims
}

// JWTIdentity implements domain.IdentityProvider.
type JWTIdentity struct {
	secret []byte
}

// NewJWTIdentity returns a provider verifying tokens signed with secret.
// An empty secret yields a provider that always reports ErrNotConfigured.
func NewJWTIdentity(secret string) *JWTIdentity {
	return &JWTIdentity{secret: []byte(secret)}
}

// Issue signs a token for userID valid for ttl.
func (a *JWTIdentity) Issue(userID domain.UserID, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrNotConfigured
	}
	now := time.Now()
	claims := Claims{
		UserID: string(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns its subject.
func (a *JWTIdentity) Verify(tokenString string) (domain.UserID, error) {
	if len(a.secret) == 0 {
		return "", ErrNotConfigured
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", errors.New("invalid token")
	}
	return domain.UserID(claims.UserID), nil
}

// CurrentUser verifies the token stored by WithToken.
func (a *JWTIdentity) CurrentUser(ctx context.Context) (domain.UserID, error) {
	tok := tokenFromContext(ctx)
	if tok == "" {
		return "", ErrNoToken
	}
	return a.Verify(tok)
}

// Static always resolves to the same user. Used by the CLI.
type Static domain.UserID

func (s Static) CurrentUser(context.Context) (domain.UserID, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return domain.UserID(s), nil
}
