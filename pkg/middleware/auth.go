package middleware

import (
	"net/http"
	"strings"

	"geekplay/pkg/httperr"
	"geekplay/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUserID     = "user_id"
	ContextUserRole   = "user_role"
	ContextUserEmail  = "user_email"
	ContextUserName   = "user_name"
	ContextUserAvatar = "user_avatar"
)

func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Authorization header required")
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserName, claims.Name)
		c.Set(ContextUserAvatar, claims.Avatar)
		c.Next()
	}
}

// UserID returns the authenticated user id, or false when the request
// did not pass through AuthMiddleware.
func UserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
