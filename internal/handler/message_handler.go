package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"webhook-inbox-go/internal/service"
)

// ListMessages returns messages with pagination and filters
func (h *Handlers) ListMessages(c *gin.Context) {
	params := service.ListParams{
		From:  c.Query("from"),
		Since: c.Query("since"),
		Query: c.Query("q"),
	}

	var err error
	if params.Limit, err = intQuery(c, "limit", service.MinLimit, service.MaxLimit); err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	if params.Offset, err = intQuery(c, "offset", 0, -1); err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	res, err := h.querier.List(c.Request.Context(), params)
	if err != nil {
		c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "database_error", "Failed to fetch messages")
		return
	}

	data := make([]MessageResponse, 0, len(res.Data))
	for _, msg := range res.Data {
		data = append(data, toMessageResponse(msg))
	}

	c.JSON(http.StatusOK, MessagesResponse{
		Data:   data,
		Total:  res.Total,
		Limit:  res.Limit,
		Offset: res.Offset,
	})
}

// GetStats returns message statistics
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.querier.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "database_error", "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(stats))
}

// intQuery parses an optional integer parameter bounded by [lo, hi]; a
// negative hi means unbounded. Absent parameters yield nil.
func intQuery(c *gin.Context, name string, lo, hi int) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("query parameter '%s' must be an integer", name)
	}
	if v < lo {
		return nil, fmt.Errorf("query parameter '%s' must be greater than or equal to %d", name, lo)
	}
	if hi >= 0 && v > hi {
		return nil, fmt.Errorf("query parameter '%s' must be less than or equal to %d", name, hi)
	}
	return &v, nil
}
