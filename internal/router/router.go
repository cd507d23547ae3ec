package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"webhook-inbox-go/internal/handler"
	metricsPkg "webhook-inbox-go/internal/metrics"
)

// RequestIDHeader carries the per-request id back to the client
const RequestIDHeader = "X-Request-ID"

const keyRequestID = "request_id"

// SetupRouter configures the Gin router with routes and middleware
func SetupRouter(h *handler.Handlers, m *metricsPkg.Metrics, log logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	// registered before Recovery so recovered panics are still logged and counted as 500
	r.Use(requestIDMiddleware())
	r.Use(loggerMiddleware(log))
	r.Use(metricsMiddleware(m))
	r.Use(gin.Recovery())
	h.SetupRoutes(r)
	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(keyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func loggerMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": c.GetString(keyRequestID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": latencyMillis(start),
		}
		for _, key := range []string{handler.KeyMessageID, handler.KeyDup, handler.KeyResult} {
			if v, ok := c.Get(key); ok {
				fields[key] = v
			}
		}

		entry := log.WithFields(fields)
		if status >= http.StatusInternalServerError {
			if len(c.Errors) > 0 {
				entry = entry.WithError(c.Errors.Last())
			}
			entry.Error("Request failed")
			return
		}
		entry.Info("Request processed")
	}
}

func metricsMiddleware(m *metricsPkg.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// route templates keep the label set bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestLatency.Observe(latencyMillis(start))
		m.HTTPRequests.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func latencyMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
