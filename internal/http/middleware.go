package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecom-backend/internal/auth"
	"ecom-backend/internal/domain"
)

const identityContextKey = "identity"

// requireAuth admits requests carrying a valid session cookie and attaches
// the caller's identity. A missing cookie is treated like an invalid token.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(h.cfg.CookieName)

		identity, err := h.cfg.Gate.Authenticate(c.Request.Context(), auth.Credentials{Token: token})
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
				return
			}
			h.internalError(c, "authenticate request", err)
			return
		}

		c.Set(identityContextKey, identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}
