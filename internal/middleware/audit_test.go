package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atlas-sports/site-api/internal/models"
)

func TestAuditLogsSuccessfulWritesOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextAdminKey, &models.AdminSession{UserID: "u-1", Email: "coach@atlas.test"})
		c.Next()
	}, Audit(zap.New(core), "program"))
	r.PUT("/admin/programs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/admin/programs/:id", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })
	r.GET("/admin/programs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/admin/programs/p-1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/admin/programs/p-1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/programs/p-1", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, "program", fields["resource"])
	assert.Equal(t, "p-1", fields["resource_id"])
	assert.Equal(t, "u-1", fields["user_id"])
	assert.Equal(t, "/admin/programs/:id", fields["path"])
}
