package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/penstore/internal/apierror"
	"github.com/fekuna/penstore/internal/model"
	"github.com/gin-gonic/gin"
)

// RequireAdmin accepts only "Authorization: Bearer <token>" carrying the admin role.
func RequireAdmin(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			apierror.Abort(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		claims, err := tm.Parse(strings.TrimSpace(tokenString))
		if err != nil {
			apierror.Abort(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if claims.Role != model.RoleAdmin {
			apierror.Abort(c, http.StatusForbidden, "forbidden", nil)
			return
		}

		u := &UserContext{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}
		c.Set(ginKey, u)
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), u))
		c.Next()
	}
}
