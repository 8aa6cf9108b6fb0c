package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizblog/gateway/internal/auth"
)

const identityKey = "identity"

func tokenFromContext(c *gin.Context) string {
	return auth.TokenFromRequest(c.Request)
}

// AdminOnly rejects requests that do not carry a valid admin token.
func (h *Handler) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := h.Verifier.Verify(c.Request.Context(), tokenFromContext(c))
		if err != nil || identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}
