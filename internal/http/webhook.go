package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 65536

// handleWebhook verifies the raw body against the provider signature before
// anything is decoded. Only signature or decode failures return 400; the
// provider retries on 5xx, which is what a store failure needs.
func (h *Handler) handleWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("Webhook Error: %s", err))
		return
	}

	event, err := h.cfg.Webhooks.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.WithError(err).Warn("rejecting webhook")
		c.String(http.StatusBadRequest, fmt.Sprintf("Webhook Error: %s", err))
		return
	}

	if err := h.cfg.Payments.HandleEvent(c.Request.Context(), event); err != nil {
		h.logger.WithError(err).WithField("event_id", event.ID).Error("handle webhook event")
		c.String(http.StatusInternalServerError, "Webhook handling failed")
		return
	}

	c.Status(http.StatusOK)
}
