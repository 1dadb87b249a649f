package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

func newTestEventService(repo *mockEventRepo) *EventService {
	return NewEventService(repo, nil, nil, fixedClock("2026-03-11T22:00:00Z"), nil, nil)
}

func TestEventServiceListPublishedPostFilters(t *testing.T) {
	repo := &mockEventRepo{events: []models.EventWithProgram{
		{Event: models.Event{ID: "later", StartDate: date("2026-04-02"), IsPublished: true, StartTime: strPtr("18:30:00")}},
		{Event: models.Event{ID: "ongoing", StartDate: date("2026-03-10"), EndDate: timePtr(date("2026-03-12")), IsPublished: true}},
		{Event: models.Event{ID: "ended", StartDate: date("2026-03-01"), EndDate: timePtr(date("2026-03-10")), IsPublished: true}},
		{Event: models.Event{ID: "draft", StartDate: date("2026-03-20")}},
	}}
	svc := newTestEventService(repo)

	events := svc.ListPublished(context.Background())
	require.Len(t, events, 2)
	assert.Equal(t, "ongoing", events[0].ID)
	assert.Equal(t, "later", events[1].ID)
	assert.Equal(t, "6:30 PM", events[1].DisplayTime)
	assert.True(t, repo.lastFilter.Ascending)
	assert.Equal(t, date("2026-03-11"), *repo.lastFilter.WindowStart)
}

func TestEventServiceListPublishedDegrades(t *testing.T) {
	svc := newTestEventService(&mockEventRepo{listErr: errors.New("timeout")})

	events := svc.ListPublished(context.Background())
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventServiceListFeatured(t *testing.T) {
	repo := &mockEventRepo{}
	for _, id := range []string{"e1", "e2", "e3", "e4"} {
		repo.events = append(repo.events, models.EventWithProgram{Event: models.Event{ID: id, StartDate: date("2026-03-20"), IsPublished: true, IsFeatured: true}})
	}
	repo.events = append(repo.events, models.EventWithProgram{Event: models.Event{ID: "plain", StartDate: date("2026-03-19"), IsPublished: true}})
	svc := newTestEventService(repo)

	events := svc.ListFeatured(context.Background(), 0)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"e1", "e2", "e3"}, []string{events[0].ID, events[1].ID, events[2].ID})
	assert.True(t, repo.lastFilter.FeaturedOnly)
	assert.Equal(t, 3, repo.lastFilter.Limit)
}

func TestEventServiceCreateValidatesRange(t *testing.T) {
	repo := &mockEventRepo{}
	svc := newTestEventService(repo)

	_, err := svc.Create(context.Background(), dto.EventRequest{Title: "Camp", Slug: "camp", StartDate: "2026-03-12", EndDate: strPtr("2026-03-10")})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "End date must be on or after the start date", appErr.Message)

	_, err = svc.Create(context.Background(), dto.EventRequest{Title: "Season", Slug: "season", StartDate: "2026-01-01", EndDate: strPtr("2028-06-01")})
	assert.Equal(t, appErrors.ErrRangeTooLarge.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.EventRequest{Title: "Camp", Slug: "camp", StartDate: "03/12/2026"})
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Start date must be a date in YYYY-MM-DD format", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestEventServiceCreate(t *testing.T) {
	repo := &mockEventRepo{}
	svc := newTestEventService(repo)

	event, err := svc.Create(context.Background(), dto.EventRequest{
		Title:       " Spring Jamboree ",
		Slug:        "spring-jamboree",
		StartDate:   "2026-03-10",
		EndDate:     strPtr(""),
		StartTime:   strPtr("09:00"),
		IsAllDay:    true,
		ProgramID:   strPtr(""),
		IsPublished: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring Jamboree", event.Title)
	assert.Nil(t, event.EndDate)
	assert.Nil(t, event.StartTime)
	assert.Nil(t, event.ProgramID)
	assert.Equal(t, date("2026-03-10"), event.StartDate)
}

func TestEventServiceUpdateMissing(t *testing.T) {
	svc := newTestEventService(&mockEventRepo{})

	_, err := svc.Update(context.Background(), "nope", dto.EventRequest{Title: "x", Slug: "x", StartDate: "2026-03-10"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEventServiceExport(t *testing.T) {
	repo := &mockEventRepo{events: []models.EventWithProgram{
		{
			Event:   models.Event{ID: "e1", Title: "Jamboree", StartDate: date("2026-03-10"), EndDate: timePtr(date("2026-03-12")), IsPublished: true, Location: strPtr("Field 2")},
			Program: &models.ProgramRef{ID: "p1", Name: "Flag Football", Slug: "flag-football"},
		},
	}}
	svc := newTestEventService(repo)

	file, err := svc.Export(context.Background(), "CSV")
	require.NoError(t, err)
	assert.Equal(t, "events-20260311.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Title,Program,Start,End,Time,Location,Published,Featured", lines[0])
	assert.Equal(t, "Jamboree,Flag Football,2026-03-10,2026-03-12,,Field 2,Yes,No", lines[1])

	_, err = svc.Export(context.Background(), "xlsx")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEventDisplayTime(t *testing.T) {
	assert.Equal(t, "All Day", EventDisplayTime(models.Event{IsAllDay: true, StartTime: strPtr("09:00")}))
	assert.Equal(t, "9:00 AM", EventDisplayTime(models.Event{StartTime: strPtr("09:00")}))
	assert.Equal(t, "12:15 PM", EventDisplayTime(models.Event{StartTime: strPtr("12:15:00")}))
	assert.Equal(t, "", EventDisplayTime(models.Event{}))
	assert.Equal(t, "", EventDisplayTime(models.Event{StartTime: strPtr("noon")}))
}
