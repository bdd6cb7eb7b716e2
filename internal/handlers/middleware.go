package handlers

import (
	"net/http"
	"strings"

	"delivery_kitchen/internal/models"

	"github.com/gin-gonic/gin"
)

const identityCtx = "dispatcher"

const (
	errMissingAuth = "missing Authorization header"
	errBadAuth     = "invalid Authorization header format"
	errBadToken    = "invalid or expired token"
)

// requireDispatcher admits requests with a valid bearer token and stores the
// dispatcher's identity under identityCtx.
func (h *Handler) requireDispatcher(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingAuth})
		return
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadAuth})
		return
	}

	who, err := h.services.ParseToken(strings.TrimSpace(token))
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}

	c.Set(identityCtx, who)
	c.Next()
}

// dispatcherFrom returns the identity set by requireDispatcher, or the zero
// Identity on unauthenticated routes.
func dispatcherFrom(c *gin.Context) models.Identity {
	v, ok := c.Get(identityCtx)
	if !ok {
		return models.Identity{}
	}
	who, _ := v.(models.Identity)
	return who
}

// audit logs a kitchen operation together with the dispatcher behind it.
func (h *Handler) audit(c *gin.Context, event string, kv ...any) {
	if h.log == nil {
		return
	}
	who := dispatcherFrom(c)
	fields := append([]any{"dispatcher", who.Username, "dispatcher_id", who.DispatcherID}, kv...)
	h.log.Infow(event, fields...)
}
