package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"webhook-inbox-go/internal/service"
)

// Keys set on the gin context for the request logger
const (
	KeyMessageID = "message_id"
	KeyDup       = "dup"
	KeyResult    = "result"
)

// HealthChecker reports whether storage is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SchedulerStatus exposes the state of the background stats refresh
type SchedulerStatus interface {
	IsRunning() bool
	GetNextRun() time.Time
	GetLastRun() time.Time
}

// Handlers contains all HTTP handlers
type Handlers struct {
	ingester         service.Ingester
	querier          service.Querier
	health           HealthChecker
	scheduler        SchedulerStatus
	gatherer         prometheus.Gatherer
	secretConfigured bool
}

// NewHandlers creates new HTTP handlers
func NewHandlers(ingester service.Ingester, querier service.Querier, health HealthChecker, scheduler SchedulerStatus, gatherer prometheus.Gatherer, secretConfigured bool) *Handlers {
	return &Handlers{
		ingester:         ingester,
		querier:          querier,
		health:           health,
		scheduler:        scheduler,
		gatherer:         gatherer,
		secretConfigured: secretConfigured,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/health/live", h.Liveness)
	router.GET("/health/ready", h.Readiness)
	router.GET("/scheduler/status", h.SchedulerStatus)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	router.POST("/webhook", h.ReceiveWebhook)
	router.GET("/messages", h.ListMessages)
	router.GET("/stats", h.GetStats)
}

// Root reports that the service runs and whether webhooks can be accepted
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Message:     "Webhook API is running",
		ConfigCheck: fmt.Sprintf("Secret is configured: %t", h.secretConfigured),
	})
}

// Liveness always succeeds once the process serves HTTP
func (h *Handlers) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "alive"})
}

// Readiness checks that the database answers
func (h *Handlers) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		logrus.Errorf("Database health check failed: %v", err)
		abortWithError(c, http.StatusServiceUnavailable, "storage_unavailable", "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

// SchedulerStatus returns the current scheduler status
func (h *Handlers) SchedulerStatus(c *gin.Context) {
	resp := SchedulerStatusResponse{Status: "stopped"}
	if h.scheduler.IsRunning() {
		resp.Status = "running"
		resp.NextRun = timeOrNil(h.scheduler.GetNextRun())
		resp.LastRun = timeOrNil(h.scheduler.GetLastRun())
	}
	c.JSON(http.StatusOK, resp)
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func abortWithError(c *gin.Context, code int, kind, detail string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:  kind,
		Detail: detail,
		Code:   code,
	})
}
