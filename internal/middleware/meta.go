package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	requestStartKey = "request_start"
	cacheHitKey     = "cache_hit"
)

// WithResponseMeta stamps the request start time so handlers can report the
// elapsed processing time in the response envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(requestStartKey, time.Now())
		c.Next()
	}
}

// SetCacheHit records whether the list payload came from the cache.
func SetCacheHit(c *gin.Context, hit bool) {
	c.Set(cacheHitKey, hit)
}

// ExtractMeta assembles the meta block for the current response. Elapsed time
// is measured at call time, so handlers extract just before writing.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	meta := make(map[string]interface{})
	if start, exists := c.Get(requestStartKey); exists {
		if ts, ok := start.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(ts).Milliseconds()
		}
	}
	if hit, exists := c.Get(cacheHitKey); exists {
		meta[cacheHitKey] = hit
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
