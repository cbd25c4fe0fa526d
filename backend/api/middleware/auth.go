package middleware

import (
	"strings"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/service"

	"github.com/gin-gonic/gin"
)

// bearerToken pulls the token out of an "Authorization: Bearer x" header,
// empty string when absent or malformed.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// JWTAuth validates the Bearer access token, rejects revoked tokens, and
// puts the caller's identity into the request context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			common.RespErrorKind(c, common.KindUnauthorized, "missing_authorization")
			c.Abort()
			return
		}

		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			common.RespErrorKind(c, common.KindUnauthorized, "invalid_token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("access_token", tokenString)

		c.Next()
	}
}

// AdminAuth verifies the caller has admin role. Must run after JWTAuth.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		roleInt, ok := role.(int)
		if !exists || !ok {
			common.RespErrorKind(c, common.KindUnauthorized, "invalid_token")
			c.Abort()
			return
		}
		if roleInt < common.RoleAdminUser {
			common.RespErrorKind(c, common.KindForbidden, "admin_required")
			c.Abort()
			return
		}
		c.Next()
	}
}
