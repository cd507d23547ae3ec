package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"webhook-inbox-go/internal/payload"
	"webhook-inbox-go/internal/service"
	"webhook-inbox-go/internal/signature"
)

// ReceiveWebhook ingests one signed delivery. Duplicates are acknowledged
// exactly like new messages.
func (h *Handlers) ReceiveWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "bad_request", "Failed to read request body")
		return
	}

	result, err := h.ingester.Ingest(c.Request.Context(), body, c.GetHeader(signature.HeaderName))

	if result.MessageID != "" {
		c.Set(KeyMessageID, result.MessageID)
	}
	if result.Outcome != "" {
		c.Set(KeyResult, string(result.Outcome))
		c.Set(KeyDup, result.Outcome == service.OutcomeDuplicate)
	}

	switch {
	case errors.Is(err, signature.ErrSecretNotConfigured):
		abortWithError(c, http.StatusUnauthorized, "invalid_signature", "Webhook secret not configured")
	case errors.Is(err, signature.ErrUnauthorized):
		abortWithError(c, http.StatusUnauthorized, "invalid_signature", "Invalid signature")
	case errors.Is(err, payload.ErrValidation):
		abortWithError(c, http.StatusUnprocessableEntity, "validation_error", payload.Reason(err))
	case err != nil:
		c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "storage_unavailable", "Failed to store message")
	default:
		c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
	}
}
