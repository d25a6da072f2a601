package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yayabtw/ishak-school-new/internal/service"
)

// Metrics observes every request on the shared Prometheus collectors. A nil
// service turns the middleware into a no-op.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		// Unmatched routes have no template, fall back to the raw path.
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
