package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	appErrors "github.com/atlas-sports/site-api/pkg/errors"
	"github.com/atlas-sports/site-api/pkg/response"
)

// SubmitGuard rejects a write while an identical one from the same admin is
// still running. Reads pass through.
func SubmitGuard() gin.HandlerFunc {
	var inFlight sync.Map
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		user := ""
		if session := AdminFromContext(c); session != nil {
			user = session.UserID
		}
		key := user + " " + c.Request.Method + " " + c.Request.URL.Path
		if _, busy := inFlight.LoadOrStore(key, struct{}{}); busy {
			response.Error(c, appErrors.ErrSubmitInFlight)
			c.Abort()
			return
		}
		defer inFlight.Delete(key)
		c.Next()
	}
}
