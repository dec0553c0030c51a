package auth

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const devSecret = "weplanet-dev-secret-change-in-production"

// Token types carried in the typ claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	settingsMu      sync.RWMutex
	jwtSecret       []byte
	tokenDuration   = 24 * time.Hour
	refreshDuration = 7 * 24 * time.Hour
)

// Claims represents the JWT claims
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	TokenType string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// Configure sets the signing secret and token lifetime. An empty secret keeps
// the JWT_SECRET environment variable (or the development default).
func Configure(secret string, ttl time.Duration) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		tokenDuration = ttl
	}
}

// SetRefreshTTL sets the refresh token lifetime
func SetRefreshTTL(ttl time.Duration) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if ttl > 0 {
		refreshDuration = ttl
	}
}

// getJWTSecret returns the configured secret, then the environment, then a
// development default
func getJWTSecret() []byte {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	if len(jwtSecret) > 0 {
		return jwtSecret
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte(devSecret)
}

func getTokenDuration(typ string) time.Duration {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	if typ == TokenTypeRefresh {
		return refreshDuration
	}
	return tokenDuration
}

// GenerateToken creates a new access token for a user
func GenerateToken(userID uint, email, username string) (string, error) {
	return generate(userID, email, username, TokenTypeAccess)
}

// GenerateRefreshToken creates a long lived token that can only be exchanged
// for a new token pair
func GenerateRefreshToken(userID uint, email, username string) (string, error) {
	return generate(userID, email, username, TokenTypeRefresh)
}

func generate(userID uint, email, username, typ string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		Username:  username,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(getTokenDuration(typ))),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "weplanet",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTSecret())
}

// ValidateToken validates an access token and returns the claims. Refresh
// tokens are rejected.
func ValidateToken(tokenString string) (*Claims, error) {
	claims, err := parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType == TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns the claims
func ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return getJWTSecret(), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
