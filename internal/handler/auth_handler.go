package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atlas-sports/site-api/internal/middleware"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
	"github.com/atlas-sports/site-api/pkg/response"
)

// AuthConfig describes the provider hand-off and the session cookie.
type AuthConfig struct {
	LoginURL     string
	CookieName   string
	LandingPath  string
	SecureCookie bool
}

// AuthHandler exposes the admin session endpoints. Credentials are handled
// by the auth provider; this handler only hands off and signs out.
type AuthHandler struct {
	cfg AuthConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(cfg AuthConfig) *AuthHandler {
	if cfg.CookieName == "" {
		cfg.CookieName = "sb-access-token"
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = "/admin/programs"
	}
	return &AuthHandler{cfg: cfg}
}

// Login godoc
// @Summary Admin sign-in hand-off
// @Description Browsers are redirected to the auth provider; API clients receive the provider URL
// @Tags Admin Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Success 302
// @Router /admin/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	target := h.loginURL()
	if target != "" && strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, target)
		return
	}
	response.OK(c, gin.H{"login_url": target, "redirect_to": h.cfg.LandingPath})
}

// Logout godoc
// @Summary Sign out of the admin area
// @Tags Admin Auth
// @Success 204
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSession(c, h.cfg.CookieName, h.cfg.SecureCookie)
	response.NoContent(c)
}

// Me godoc
// @Summary Current admin session
// @Tags Admin Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.AdminFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.OK(c, session)
}

func (h *AuthHandler) loginURL() string {
	if h.cfg.LoginURL == "" {
		return ""
	}
	u, err := url.Parse(h.cfg.LoginURL)
	if err != nil {
		return h.cfg.LoginURL
	}
	q := u.Query()
	if q.Get("redirect_to") == "" {
		q.Set("redirect_to", h.cfg.LandingPath)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
