package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
	"github.com/atlas-sports/site-api/pkg/response"
)

// ContextAdminKey is the gin context key storing the admin session.
const ContextAdminKey = "adminSession"

// Authenticator resolves a provider token to an admin session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.AdminSession, error)
}

// GateConfig configures the admin gate.
type GateConfig struct {
	CookieName   string
	LoginPath    string
	LandingPath  string
	HomePath     string
	SecureCookie bool
}

func (c GateConfig) withDefaults() GateConfig {
	if c.CookieName == "" {
		c.CookieName = "sb-access-token"
	}
	if c.LoginPath == "" {
		c.LoginPath = "/admin/login"
	}
	if c.LandingPath == "" {
		c.LandingPath = "/admin/programs"
	}
	if c.HomePath == "" {
		c.HomePath = "/"
	}
	return c
}

// AdminGate protects the admin area. Requests without a valid provider token
// are sent to the login page; a valid token whose user is not an admin is
// signed out and sent to the home page. The login page itself is open, but a
// signed-in admin visiting it lands on the program list.
func AdminGate(auth Authenticator, cfg GateConfig, logger *zap.Logger) gin.HandlerFunc {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		onLogin := c.Request.URL.Path == cfg.LoginPath
		token := AccessToken(c, cfg.CookieName)

		if token == "" {
			if onLogin {
				c.Next()
				return
			}
			redirect(c, cfg.LoginPath)
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			appErr := appErrors.FromError(err)
			switch appErr.Code {
			case appErrors.ErrUnauthorized.Code:
				if onLogin {
					c.Next()
					return
				}
				redirect(c, cfg.LoginPath)
			case appErrors.ErrForbidden.Code:
				ClearSession(c, cfg.CookieName, cfg.SecureCookie)
				redirect(c, cfg.HomePath)
			default:
				logger.Error("admin gate could not verify session", zap.Error(err))
				response.Error(c, err)
				c.Abort()
			}
			return
		}

		if onLogin {
			redirect(c, cfg.LandingPath)
			return
		}
		c.Set(ContextAdminKey, session)
		c.Next()
	}
}

// AccessToken reads the provider token from the session cookie, falling back
// to an Authorization bearer header.
func AccessToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// ClearSession expires the session cookie.
func ClearSession(c *gin.Context, cookieName string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", secure, true)
}

// AdminFromContext returns the session set by AdminGate.
func AdminFromContext(c *gin.Context) *models.AdminSession {
	value, exists := c.Get(ContextAdminKey)
	if !exists {
		return nil
	}
	session, _ := value.(*models.AdminSession)
	return session
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
