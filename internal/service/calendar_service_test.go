package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

func calendarFixture() *mockEventRepo {
	ongoing := models.EventWithProgram{Event: models.Event{ID: "jamboree", StartDate: date("2026-03-10"), EndDate: timePtr(date("2026-03-12")), IsPublished: true}}
	return &mockEventRepo{
		events: []models.EventWithProgram{ongoing},
		month: []models.EventWithProgram{
			ongoing,
			{Event: models.Event{ID: "clinic", StartDate: date("2026-03-02"), IsPublished: true}},
			{Event: models.Event{ID: "broken", StartDate: date("2026-03-20"), EndDate: timePtr(date("2026-03-18")), IsPublished: true}},
		},
	}
}

func newTestCalendar(repo *mockEventRepo) *CalendarService {
	clock := fixedClock("2026-03-11T15:00:00Z")
	events := NewEventService(repo, nil, nil, clock, nil, nil)
	return NewCalendarService(events, NewMetricsService(), clock, nil)
}

func TestCalendarViewHighlightsAndSelection(t *testing.T) {
	repo := calendarFixture()
	svc := newTestCalendar(repo)

	view, err := svc.View(context.Background(), dto.CalendarQuery{})
	require.NoError(t, err)

	assert.Equal(t, "2026-03", view.Month)
	assert.Equal(t, "2026-03-11", view.SelectedDate)
	assert.Equal(t, []string{"2026-03-02", "2026-03-10"}, view.PastDates)
	assert.Equal(t, []string{"2026-03-11", "2026-03-12"}, view.CurrentDates)
	require.Len(t, view.SelectedDay, 1)
	assert.Equal(t, "jamboree", view.SelectedDay[0].ID)
	assert.Len(t, view.MonthEvents, 3)
	assert.Equal(t, "clinic", view.MonthEvents[0].ID)
	assert.Len(t, view.Upcoming, 1)
	assert.Equal(t, date("2026-03-01"), repo.lastFrom)
	assert.Equal(t, date("2026-03-31"), repo.lastTo)
}

func TestCalendarViewSelectedDateOutsideRange(t *testing.T) {
	svc := newTestCalendar(calendarFixture())

	view, err := svc.View(context.Background(), dto.CalendarQuery{Date: "2026-03-13"})
	require.NoError(t, err)
	assert.Empty(t, view.SelectedDay)
	assert.NotNil(t, view.SelectedDay)

	view, err = svc.View(context.Background(), dto.CalendarQuery{Date: "2026-03-12"})
	require.NoError(t, err)
	require.Len(t, view.SelectedDay, 1)
}

func TestCalendarViewMonthParameter(t *testing.T) {
	repo := calendarFixture()
	svc := newTestCalendar(repo)

	view, err := svc.View(context.Background(), dto.CalendarQuery{Month: "2026-02", Date: "2026-03-10"})
	require.NoError(t, err)
	assert.Equal(t, "2026-02", view.Month)
	assert.Equal(t, date("2026-02-28"), repo.lastTo)
}

func TestCalendarViewRejectsMalformedInput(t *testing.T) {
	svc := newTestCalendar(calendarFixture())

	_, err := svc.View(context.Background(), dto.CalendarQuery{Date: "11/03/2026"})
	assert.Equal(t, appErrors.ErrInvalidDate.Code, appErrors.FromError(err).Code)

	_, err = svc.View(context.Background(), dto.CalendarQuery{Month: "March"})
	assert.Equal(t, appErrors.ErrInvalidDate.Code, appErrors.FromError(err).Code)
}

func TestCalendarViewSurvivesMonthFailure(t *testing.T) {
	repo := calendarFixture()
	repo.monthErr = errors.New("statement timeout")
	svc := newTestCalendar(repo)

	view, err := svc.View(context.Background(), dto.CalendarQuery{})
	require.NoError(t, err)
	assert.Empty(t, view.MonthEvents)
	assert.Equal(t, []string{"2026-03-10"}, view.PastDates)
}
