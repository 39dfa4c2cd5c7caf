package middleware

import (
	"strconv"
	"time"

	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/util/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestMiddleware tags each request with an id, records it in the HTTP
// metrics and logs it at debug level.
func RequestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(elapsed.Seconds())
		logger.Debugf("[%s] %s %s %d %s", id, c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}
