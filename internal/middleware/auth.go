package middleware

import (
	"net/http"
	"strings"

	"pesaflow/config"
	"pesaflow/internal/auth"

	"github.com/gin-gonic/gin"
)

// MerchantRequired validates the bearer token and sets the merchant identity
// in context.
func MerchantRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("merchant_id", claims.MerchantID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// GetMerchantID returns the authenticated merchant id (after MerchantRequired).
func GetMerchantID(c *gin.Context) uint {
	v, _ := c.Get("merchant_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}
