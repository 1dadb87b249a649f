package service

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/models"
	"github.com/atlas-sports/site-api/internal/query"
	"github.com/atlas-sports/site-api/pkg/daterange"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

const monthLayout = "2006-01"

type calendarEvents interface {
	ListPublished(ctx context.Context) []models.EventWithProgram
	ListInMonth(ctx context.Context, t time.Time) ([]models.EventWithProgram, error)
}

// CalendarService builds the public events calendar.
type CalendarService struct {
	events  calendarEvents
	metrics *MetricsService
	clock   Clock
	logger  *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(events calendarEvents, metrics *MetricsService, clock Clock, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{events: events, metrics: metrics, clock: clock, logger: logger}
}

// View returns the highlight sets, the events on the selected date and the
// events overlapping the displayed month. Month defaults to the month of the
// selected date, which defaults to today.
func (s *CalendarService) View(ctx context.Context, q dto.CalendarQuery) (*models.CalendarView, error) {
	today := s.clock.Today()

	selected := today
	if q.Date != "" {
		d, err := daterange.ParseDate(q.Date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "date must be YYYY-MM-DD")
		}
		selected = d
	}
	month := selected
	if q.Month != "" {
		m, err := time.Parse(monthLayout, q.Month)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "month must be YYYY-MM")
		}
		month = m
	}

	upcoming := s.events.ListPublished(ctx)
	monthEvents, err := s.events.ListInMonth(ctx, month)
	if err != nil {
		s.logger.Warn("failed to load month events", zap.String("month", month.Format(monthLayout)), zap.Error(err))
		monthEvents = []models.EventWithProgram{}
	}

	seen := make(map[string]bool, len(upcoming)+len(monthEvents))
	var all []models.EventWithProgram
	for _, e := range slices.Concat(upcoming, monthEvents) {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		all = append(all, e)
	}

	days := map[time.Time]bool{}
	selectedDay := []models.EventWithProgram{}
	for _, e := range all {
		span := daterange.Span{Start: e.StartDate, End: e.EndDate}
		seq, err := daterange.Days(span)
		if err != nil {
			s.metrics.RecordSkippedEvent()
			s.logger.Warn("skipping event with invalid date range", zap.String("event_id", e.ID), zap.Error(err))
			continue
		}
		for d := range seq {
			days[d] = true
		}
		if daterange.Contains(selected, span) {
			selectedDay = append(selectedDay, e)
		}
	}
	query.SortEvents(selectedDay, true)
	query.SortEvents(monthEvents, true)

	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	past, current := daterange.Classify(dates, today)

	return &models.CalendarView{
		Month:        month.Format(monthLayout),
		SelectedDate: daterange.Format(selected),
		PastDates:    formatDates(past),
		CurrentDates: formatDates(current),
		SelectedDay:  selectedDay,
		MonthEvents:  monthEvents,
		Upcoming:     upcoming,
	}, nil
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, daterange.Format(d))
	}
	return out
}
