package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/atlas-sports/site-api/internal/models"
)

func TestSubmitGuardRejectsDuplicateWhileRunning(t *testing.T) {
	gin.SetMode(gin.TestMode)
	entered := make(chan struct{})
	release := make(chan struct{})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextAdminKey, &models.AdminSession{UserID: c.GetHeader("X-User")})
		c.Next()
	}, SubmitGuard())
	r.POST("/admin/programs", func(c *gin.Context) {
		if c.GetHeader("X-Block") != "" {
			close(entered)
			<-release
		}
		c.Status(http.StatusCreated)
	})

	send := func(user string, block bool) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/programs", nil)
		req.Header.Set("X-User", user)
		if block {
			req.Header.Set("X-Block", "1")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	var wg sync.WaitGroup
	var first int
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = send("alice", true)
	}()
	<-entered

	assert.Equal(t, http.StatusConflict, send("alice", false))
	assert.Equal(t, http.StatusCreated, send("bob", false))

	close(release)
	wg.Wait()
	assert.Equal(t, http.StatusCreated, first)
	assert.Equal(t, http.StatusCreated, send("alice", false))
}

func TestSubmitGuardIgnoresReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SubmitGuard())
	r.GET("/admin/programs", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/programs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
