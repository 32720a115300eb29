package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecom-backend/internal/domain"
)

// setSessionCookie issues a token for the identity and stores it in an
// HttpOnly cookie that lives as long as the token. It reports whether a
// response can still be written.
func (h *Handler) setSessionCookie(c *gin.Context, id string, role domain.Role) bool {
	token, _, err := h.cfg.Tokens.Issue(domain.Identity{ID: id, Role: role})
	if err != nil {
		h.internalError(c, "issue token", err)
		return false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, int(h.cfg.Tokens.TTL().Seconds()), "/", "", h.cfg.CookieSecure, true)
	return true
}
