package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles admits only callers whose token carries one of the roles. With
// auth disabled no role is set and every request is rejected.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	allowedSet := map[string]struct{}{}
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		v, exists := c.Get(CtxRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Service token required"})
			return
		}
		role, _ := v.(string)
		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role " + role + " is not allowed"})
			return
		}
		c.Next()
	}
}
