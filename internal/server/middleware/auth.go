package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth middleware validates API key authentication for the
// operational API. The notification endpoint and health probes are not
// behind it.
func APIKeyAuth(expectedAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get API key from header
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Try Authorization header as fallback
			apiKey = c.GetHeader("Authorization")
			if apiKey != "" && len(apiKey) > 7 && apiKey[:7] == "Bearer " {
				apiKey = apiKey[7:]
			}
		}
		if apiKey == "" {
			// Query parameter fallback for websocket clients that cannot
			// set headers.
			apiKey = c.Query("api_key")
		}

		// Validate API key
		if expectedAPIKey == "" || apiKey != expectedAPIKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid or missing API key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
