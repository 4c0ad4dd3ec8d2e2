package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-admin/utils"
)

// AdminIDKey is the gin context key holding the authenticated admin id.
const AdminIDKey = "adminID"

// TokenParser validates a bearer token and returns the admin id it was issued to.
type TokenParser interface {
	ParseToken(raw string) (uint, error)
}

// RequireAdmin rejects requests without a valid "Authorization: Bearer <jwt>" header.
func RequireAdmin(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.AbortJSONError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid Authorization header")
			return
		}

		id, err := tokens.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		c.Set(AdminIDKey, id)
		c.Next()
	}
}
