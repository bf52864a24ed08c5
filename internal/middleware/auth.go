package middleware

import (
	"net/http"
	"strings"

	"diskmanager/internal/services"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// RequireToken rejects requests without a valid bearer token. The token may
// also come from the token query parameter, which browsers need for /ws.
func RequireToken(auth *services.AuthService, security *SecurityLogger) gin.HandlerFunc {
	validator := NewInputValidator()
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		} else {
			token = c.Query("token")
		}

		if token == "" {
			security.LogFailedAuth(c.ClientIP(), "missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		if !validator.ValidateToken(token) {
			security.LogFailedAuth(c.ClientIP(), "malformed token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			security.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Claims returns the claims stored by RequireToken, nil when the route is
// not authenticated
func Claims(c *gin.Context) *services.CustomClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.CustomClaims)
	return claims
}
