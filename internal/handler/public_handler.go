package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
	"github.com/atlas-sports/site-api/pkg/response"
)

type publicPrograms interface {
	ListPublished(ctx context.Context) []models.Program
	GetPublishedBySlug(ctx context.Context, slug string) (*models.ProgramDetail, error)
	RegistrationOverview(ctx context.Context) models.RegistrationOverview
}

type publicEvents interface {
	ListPublished(ctx context.Context) []models.EventWithProgram
	ListFeatured(ctx context.Context, limit int) []models.EventWithProgram
}

type publicCalendar interface {
	View(ctx context.Context, q dto.CalendarQuery) (*models.CalendarView, error)
}

type publicAnnouncements interface {
	ListVisible(ctx context.Context) []models.AnnouncementWithProgram
	ListLatest(ctx context.Context, limit int) []models.AnnouncementWithProgram
}

type publicSettings interface {
	RegistrationStatus(ctx context.Context) models.RegistrationStatus
	ContactInfo(ctx context.Context) models.ContactInfo
}

// PublicHandler serves the listings read by the marketing site. Listings
// never fail on store errors; they come back empty.
type PublicHandler struct {
	programs      publicPrograms
	events        publicEvents
	calendar      publicCalendar
	announcements publicAnnouncements
	settings      publicSettings
}

// PublicServices groups the services behind PublicHandler.
type PublicServices struct {
	Programs      publicPrograms
	Events        publicEvents
	Calendar      publicCalendar
	Announcements publicAnnouncements
	Settings      publicSettings
}

// NewPublicHandler constructs a public handler.
func NewPublicHandler(svcs PublicServices) *PublicHandler {
	return &PublicHandler{
		programs:      svcs.Programs,
		events:        svcs.Events,
		calendar:      svcs.Calendar,
		announcements: svcs.Announcements,
		settings:      svcs.Settings,
	}
}

// ListPrograms godoc
// @Summary List published programs
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/programs [get]
func (h *PublicHandler) ListPrograms(c *gin.Context) {
	response.OK(c, h.programs.ListPublished(c.Request.Context()))
}

// GetProgram godoc
// @Summary Get published program by slug
// @Tags Public
// @Produce json
// @Param slug path string true "Program slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/programs/{slug} [get]
func (h *PublicHandler) GetProgram(c *gin.Context) {
	detail, err := h.programs.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Registration godoc
// @Summary Registration page data
// @Description Published programs with their registration state and the site banner
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/registration [get]
func (h *PublicHandler) Registration(c *gin.Context) {
	response.OK(c, h.programs.RegistrationOverview(c.Request.Context()))
}

// ListEvents godoc
// @Summary List current published events
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/events [get]
func (h *PublicHandler) ListEvents(c *gin.Context) {
	response.OK(c, h.events.ListPublished(c.Request.Context()))
}

// FeaturedEvents godoc
// @Summary List featured events
// @Tags Public
// @Produce json
// @Param limit query int false "Maximum events" default(3)
// @Success 200 {object} response.Envelope
// @Router /api/events/featured [get]
func (h *PublicHandler) FeaturedEvents(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.events.ListFeatured(c.Request.Context(), limit))
}

// Calendar godoc
// @Summary Calendar view
// @Description Highlighted past and current dates, events of the selected day and of the month
// @Tags Public
// @Produce json
// @Param month query string false "Month (YYYY-MM)"
// @Param date query string false "Selected date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/calendar [get]
func (h *PublicHandler) Calendar(c *gin.Context) {
	var q dto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	view, err := h.calendar.View(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// ListAnnouncements godoc
// @Summary List visible announcements
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/announcements [get]
func (h *PublicHandler) ListAnnouncements(c *gin.Context) {
	response.OK(c, h.announcements.ListVisible(c.Request.Context()))
}

// LatestAnnouncements godoc
// @Summary Latest announcements teaser
// @Tags Public
// @Produce json
// @Param limit query int false "Maximum announcements" default(3)
// @Success 200 {object} response.Envelope
// @Router /api/announcements/latest [get]
func (h *PublicHandler) LatestAnnouncements(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, h.announcements.ListLatest(c.Request.Context(), limit))
}

// RegistrationStatus godoc
// @Summary Site registration banner
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/settings/registration [get]
func (h *PublicHandler) RegistrationStatus(c *gin.Context) {
	response.OK(c, h.settings.RegistrationStatus(c.Request.Context()))
}

// ContactInfo godoc
// @Summary Public contact block
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/settings/contact [get]
func (h *PublicHandler) ContactInfo(c *gin.Context) {
	response.OK(c, h.settings.ContactInfo(c.Request.Context()))
}

// queryLimit reads ?limit. Absent means the service default.
func queryLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 50 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "limit must be between 1 and 50")
	}
	return limit, nil
}
