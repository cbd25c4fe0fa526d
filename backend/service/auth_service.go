package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     int    `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is what login, register and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime, seconds
}

func newClaims(user *model.User, expiry time.Duration) JWTClaims {
	now := time.Now()
	return JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "filebox",
			Subject:   user.Username,
		},
	}
}

// GenerateToken creates a new access token for a user
func GenerateToken(user *model.User) (string, error) {
	claims := newClaims(user, time.Duration(common.JWTExpiryHours)*time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(common.JWTSecret))
}

// GenerateRefreshToken creates a refresh token, signed with its own secret so
// an access token can never be replayed on the refresh endpoint.
func GenerateRefreshToken(user *model.User) (string, error) {
	claims := newClaims(user, time.Duration(common.JWTRefreshExpiryHours)*time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(common.JWTRefreshSecret))
}

// GenerateTokenPair issues a fresh access + refresh pair.
func GenerateTokenPair(user *model.User) (*TokenPair, error) {
	access, err := GenerateToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(common.JWTExpiryHours) * 3600,
	}, nil
}

func parseToken(tokenString string, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ValidateToken validates an access token, including the revocation check.
func ValidateToken(tokenString string) (*JWTClaims, error) {
	claims, err := parseToken(tokenString, common.JWTSecret)
	if err != nil {
		return nil, err
	}
	if IsTokenRevoked(tokenString) {
		return nil, errors.New("token has been invalidated")
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token, including the revocation check.
func ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	claims, err := parseToken(tokenString, common.JWTRefreshSecret)
	if err != nil {
		return nil, err
	}
	if IsTokenRevoked(tokenString) {
		return nil, errors.New("refresh token has been invalidated")
	}
	return claims, nil
}

// RefreshTokenPair rotates a refresh token: the presented token is validated,
// revoked, and a brand-new pair is issued against current user state. A
// replayed refresh token therefore fails on the revocation check.
func RefreshTokenPair(refreshToken string) (*TokenPair, error) {
	claims, err := ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// Re-read the user so a disabled or deleted account cannot keep minting
	// tokens from an old refresh token.
	user, err := model.GetUserById(claims.UserID)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if user.Status != common.UserStatusEnabled {
		return nil, errors.New("user is disabled")
	}

	RevokeToken(refreshToken, claims.ExpiresAt.Time)
	return GenerateTokenPair(user)
}

// Logout revokes the presented tokens. Idempotent: revoking a token that is
// already revoked, expired or malformed is not an error.
func Logout(accessToken, refreshToken string) {
	if claims, err := parseToken(accessToken, common.JWTSecret); err == nil {
		RevokeToken(accessToken, claims.ExpiresAt.Time)
	}
	if refreshToken == "" {
		return
	}
	if claims, err := parseToken(refreshToken, common.JWTRefreshSecret); err == nil {
		RevokeToken(refreshToken, claims.ExpiresAt.Time)
	}
}

// Revocation list. Redis-backed when available so revocation survives
// restarts and is shared between instances; otherwise an in-process map.
// Entries carry the token's own expiry, after which the signature check
// rejects the token anyway.

const blacklistKeyPrefix = "jwt:blacklist:"

var (
	localBlacklist   = make(map[string]time.Time)
	localBlacklistMu sync.Mutex
)

func RevokeToken(tokenString string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if common.RedisEnabled {
		err := common.RDB.Set(context.Background(), blacklistKeyPrefix+tokenString, "1", ttl).Err()
		if err != nil {
			common.SysError("failed to blacklist token in redis: " + err.Error())
		}
		return
	}
	localBlacklistMu.Lock()
	defer localBlacklistMu.Unlock()
	localBlacklist[tokenString] = expiresAt
	// Opportunistic sweep of expired entries.
	now := time.Now()
	for token, exp := range localBlacklist {
		if exp.Before(now) {
			delete(localBlacklist, token)
		}
	}
}

func IsTokenRevoked(tokenString string) bool {
	if common.RedisEnabled {
		n, err := common.RDB.Exists(context.Background(), blacklistKeyPrefix+tokenString).Result()
		return err == nil && n > 0
	}
	localBlacklistMu.Lock()
	defer localBlacklistMu.Unlock()
	exp, ok := localBlacklist[tokenString]
	return ok && exp.After(time.Now())
}
