package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlas-sports/site-api/pkg/middleware/requestid"
	"github.com/atlas-sports/site-api/pkg/response"
)

// WithResponseMeta initialises response metadata for the request: the
// request id and the start time used to report processing time.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.StartedAtKey, time.Now())
		if reqID := requestid.Value(c); reqID != "" {
			response.SetMeta(c, "request_id", reqID)
		}
		c.Next()
	}
}

// PublicCache marks public listings as cacheable by browsers and CDNs for
// maxAge. Admin routes keep the no-store default.
func PublicCache(maxAge time.Duration) gin.HandlerFunc {
	value := "no-store"
	if maxAge > 0 {
		value = "public, max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	}
	return func(c *gin.Context) {
		c.Set(response.CacheControlKey, value)
		c.Next()
	}
}
