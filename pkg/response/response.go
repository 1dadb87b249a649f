package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// Context keys read when writing a response.
const (
	// MetaKey collects metadata merged into the next JSON envelope.
	MetaKey = "response_meta"
	// StartedAtKey holds the time.Time the request started, for processing_time_ms.
	StartedAtKey = "request_started_at"
	// CacheControlKey overrides the no-store Cache-Control of success responses.
	CacheControlKey = "cache_control"
)

// SetMeta records a metadata entry merged into the next JSON envelope.
func SetMeta(c *gin.Context, key string, value interface{}) {
	meta, _ := c.Get(MetaKey)
	m, ok := meta.(map[string]interface{})
	if !ok {
		m = map[string]interface{}{}
		c.Set(MetaKey, m)
	}
	m[key] = value
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", cacheControl(c))
	envelope := Envelope{Data: data}
	merged := map[string]interface{}{}
	if stored, ok := c.Get(MetaKey); ok {
		if m, ok := stored.(map[string]interface{}); ok {
			for k, v := range m {
				merged[k] = v
			}
		}
	}
	if len(meta) > 0 {
		for k, v := range meta[0] {
			merged[k] = v
		}
	}
	if started, ok := c.Get(StartedAtKey); ok {
		if t, ok := started.(time.Time); ok {
			merged["processing_time_ms"] = time.Since(t).Milliseconds()
		}
	}
	if len(merged) > 0 {
		envelope.Meta = merged
	}
	c.JSON(status, envelope)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

func cacheControl(c *gin.Context) string {
	if v, ok := c.Get(CacheControlKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "no-store"
}
