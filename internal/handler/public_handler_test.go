package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

type publicStub struct {
	programs     []models.Program
	detail       *models.ProgramDetail
	featuredSeen int
	latestSeen   int
	calendarSeen dto.CalendarQuery
	calendarErr  error
}

func (p *publicStub) ListPublished(ctx context.Context) []models.Program { return p.programs }

func (p *publicStub) GetPublishedBySlug(ctx context.Context, slug string) (*models.ProgramDetail, error) {
	if p.detail == nil || p.detail.Slug != slug {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	return p.detail, nil
}

func (p *publicStub) RegistrationOverview(ctx context.Context) models.RegistrationOverview {
	return models.RegistrationOverview{Programs: []models.ProgramRegistration{}}
}

type eventsStub struct{ featuredSeen *int }

func (e eventsStub) ListPublished(ctx context.Context) []models.EventWithProgram {
	return []models.EventWithProgram{}
}

func (e eventsStub) ListFeatured(ctx context.Context, limit int) []models.EventWithProgram {
	*e.featuredSeen = limit
	return []models.EventWithProgram{}
}

func (p *publicStub) View(ctx context.Context, q dto.CalendarQuery) (*models.CalendarView, error) {
	p.calendarSeen = q
	if p.calendarErr != nil {
		return nil, p.calendarErr
	}
	return &models.CalendarView{Month: "2026-03"}, nil
}

type announcementsStub struct{ latestSeen *int }

func (a announcementsStub) ListVisible(ctx context.Context) []models.AnnouncementWithProgram {
	return []models.AnnouncementWithProgram{}
}

func (a announcementsStub) ListLatest(ctx context.Context, limit int) []models.AnnouncementWithProgram {
	*a.latestSeen = limit
	return []models.AnnouncementWithProgram{}
}

type settingsStub struct{}

func (settingsStub) RegistrationStatus(ctx context.Context) models.RegistrationStatus {
	return models.RegistrationStatus{OpenDate: "Late January 2026"}
}

func (settingsStub) ContactInfo(ctx context.Context) models.ContactInfo {
	return models.ContactInfo{Email: "info@atlassportsgroup.com"}
}

func publicRouter(stub *publicStub) http.Handler {
	h := NewPublicHandler(PublicServices{
		Programs:      stub,
		Events:        eventsStub{featuredSeen: &stub.featuredSeen},
		Calendar:      stub,
		Announcements: announcementsStub{latestSeen: &stub.latestSeen},
		Settings:      settingsStub{},
	})
	r := newEngine()
	r.GET("/api/programs", h.ListPrograms)
	r.GET("/api/programs/:slug", h.GetProgram)
	r.GET("/api/events/featured", h.FeaturedEvents)
	r.GET("/api/announcements/latest", h.LatestAnnouncements)
	r.GET("/api/calendar", h.Calendar)
	r.GET("/api/settings/contact", h.ContactInfo)
	return r
}

func TestPublicListProgramsReturnsArray(t *testing.T) {
	stub := &publicStub{programs: []models.Program{}}
	w := perform(publicRouter(stub), http.MethodGet, "/api/programs", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))
}

func TestPublicGetProgramBySlug(t *testing.T) {
	stub := &publicStub{detail: &models.ProgramDetail{Program: models.Program{ID: "p1", Slug: "flag-football"}, Events: []models.EventWithProgram{}}}
	r := publicRouter(stub)

	w := perform(r, http.MethodGet, "/api/programs/flag-football", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.ProgramDetail
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &detail))
	assert.Equal(t, "p1", detail.ID)

	w = perform(r, http.MethodGet, "/api/programs/hidden-program", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)
}

func TestPublicLimits(t *testing.T) {
	stub := &publicStub{}
	r := publicRouter(stub)

	w := perform(r, http.MethodGet, "/api/events/featured", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, stub.featuredSeen)

	perform(r, http.MethodGet, "/api/announcements/latest?limit=2", nil)
	assert.Equal(t, 2, stub.latestSeen)

	w = perform(r, http.MethodGet, "/api/events/featured?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = perform(r, http.MethodGet, "/api/events/featured?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicCalendarPassesQuery(t *testing.T) {
	stub := &publicStub{}
	r := publicRouter(stub)

	w := perform(r, http.MethodGet, "/api/calendar?month=2026-03&date=2026-03-11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.CalendarQuery{Month: "2026-03", Date: "2026-03-11"}, stub.calendarSeen)

	stub.calendarErr = appErrors.Clone(appErrors.ErrInvalidDate, "date must be YYYY-MM-DD")
	w = perform(r, http.MethodGet, "/api/calendar?date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE", decode(t, w).Error.Code)
}

func TestPublicContactInfo(t *testing.T) {
	w := perform(publicRouter(&publicStub{}), http.MethodGet, "/api/settings/contact", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"info@atlassportsgroup.com","serviceArea":""}`, string(decode(t, w).Data))
}
