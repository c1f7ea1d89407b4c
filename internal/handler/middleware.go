package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth guards the /api routes with a shared-secret header check.
// An empty expected key disables the check entirely, which is how local
// development runs without credentials.
func APIKeyAuth(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		got := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		switch {
		case got == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apiKeyHeader + " header is required"})
		case got != expected:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "API key is not valid"})
		default:
			c.Next()
		}
	}
}
