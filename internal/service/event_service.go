package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/form"
	"github.com/atlas-sports/site-api/internal/models"
	"github.com/atlas-sports/site-api/internal/query"
	"github.com/atlas-sports/site-api/internal/repository"
	"github.com/atlas-sports/site-api/pkg/daterange"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
	"github.com/atlas-sports/site-api/pkg/export"
)

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(export.Dataset) ([]byte, error)
}

// ExportFile is a rendered admin export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EventService handles event workflows.
type EventService struct {
	repo        eventRepository
	cache       *CacheService
	revalidator *RevalidationService
	clock       Clock
	renderers   map[string]Renderer
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEventService constructs the service with CSV and PDF exporters.
func NewEventService(repo eventRepository, cache *CacheService, revalidator *RevalidationService, clock Clock, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = form.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		repo:        repo,
		cache:       cache,
		revalidator: revalidator,
		clock:       clock,
		renderers: map[string]Renderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		validator: validate,
		logger:    logger,
	}
}

// ListPublished returns published events that have not entirely passed,
// soonest first, with their program. Store failures degrade to an empty list.
func (s *EventService) ListPublished(ctx context.Context) []models.EventWithProgram {
	today := s.clock.Today()
	key := CacheKeyEvents + ":" + daterange.Format(today)
	events, _, err := remember(ctx, s.cache, key, func(ctx context.Context) ([]models.EventWithProgram, error) {
		return s.repo.List(ctx, models.EventFilter{WindowStart: &today, Ascending: true})
	})
	if err != nil {
		s.logger.Warn("failed to load published events", zap.Error(err))
		return []models.EventWithProgram{}
	}
	events = query.Filter(events, func(e models.EventWithProgram) bool { return query.EventIsPublic(e.Event, today) })
	query.SortEvents(events, true)
	return decorateEvents(events)
}

// ListFeatured returns up to limit featured current events; limit <= 0 means 3.
func (s *EventService) ListFeatured(ctx context.Context, limit int) []models.EventWithProgram {
	if limit <= 0 {
		limit = query.DefaultFeaturedLimit
	}
	today := s.clock.Today()
	key := fmt.Sprintf("%s:featured:%s:%d", CacheKeyEvents, daterange.Format(today), limit)
	events, _, err := remember(ctx, s.cache, key, func(ctx context.Context) ([]models.EventWithProgram, error) {
		return s.repo.List(ctx, models.EventFilter{WindowStart: &today, FeaturedOnly: true, Ascending: true, Limit: limit})
	})
	if err != nil {
		s.logger.Warn("failed to load featured events", zap.Error(err))
		return []models.EventWithProgram{}
	}
	events = query.Filter(events, func(e models.EventWithProgram) bool { return query.EventIsFeatured(e.Event, today) })
	query.SortEvents(events, true)
	return decorateEvents(query.Limit(events, limit))
}

// ListInMonth returns published events sharing at least one day with the
// month of t, including past ones.
func (s *EventService) ListInMonth(ctx context.Context, t time.Time) ([]models.EventWithProgram, error) {
	first, last := daterange.MonthBounds(t)
	events, err := s.repo.ListOverlapping(ctx, first, last)
	if err != nil {
		return nil, err
	}
	return decorateEvents(query.Filter(events, func(e models.EventWithProgram) bool { return e.IsPublished })), nil
}

// ListAll returns every event for the admin list, latest start first.
func (s *EventService) ListAll(ctx context.Context) ([]models.EventWithProgram, error) {
	events, err := s.repo.List(ctx, models.EventFilter{})
	if err != nil {
		return nil, appErrors.Store(err, "load events")
	}
	if events == nil {
		events = []models.EventWithProgram{}
	}
	return decorateEvents(events), nil
}

// Get returns an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*models.EventWithProgram, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Store(err, "load event")
	}
	event.DisplayTime = EventDisplayTime(event.Event)
	return event, nil
}

// Create registers a new event.
func (s *EventService) Create(ctx context.Context, req dto.EventRequest) (*models.Event, error) {
	event := &models.Event{}
	if err := s.apply(event, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, eventWriteError(err, "create event")
	}
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("slug", event.Slug))
	s.revalidator.Revalidate(ctx, "event:create")
	return event, nil
}

// Update replaces an event's fields.
func (s *EventService) Update(ctx context.Context, id string, req dto.EventRequest) (*models.Event, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	event := &existing.Event
	if err := s.apply(event, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, eventWriteError(err, "update event")
	}
	s.revalidator.Revalidate(ctx, "event:update")
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return eventWriteError(err, "delete event")
	}
	s.revalidator.Revalidate(ctx, "event:delete")
	return nil
}

// Export renders the admin event schedule as csv or pdf.
func (s *EventService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	events, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   "Atlas Sports Event Schedule",
		Headers: []string{"Title", "Program", "Start", "End", "Time", "Location", "Published", "Featured"},
	}
	for _, e := range events {
		program := ""
		if e.Program != nil {
			program = e.Program.Name
		}
		end := ""
		if e.EndDate != nil {
			end = daterange.Format(*e.EndDate)
		}
		data.Rows = append(data.Rows, []string{
			e.Title,
			program,
			daterange.Format(e.StartDate),
			end,
			e.DisplayTime,
			valueOrEmpty(e.Location),
			yesNo(e.IsPublished),
			yesNo(e.IsFeatured),
		})
	}

	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("events-%s.%s", s.clock.now().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        body,
	}, nil
}

func (s *EventService) apply(e *models.Event, req dto.EventRequest) error {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, form.Message(err))
	}
	start, err := daterange.ParseDate(req.StartDate)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "Start date must be a date in YYYY-MM-DD format")
	}
	var end *time.Time
	if raw := blankToNil(req.EndDate); raw != nil {
		parsed, err := daterange.ParseDate(*raw)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "End date must be a date in YYYY-MM-DD format")
		}
		end = &parsed
	}
	if _, err := daterange.Length(daterange.Span{Start: start, End: end}); err != nil {
		switch {
		case errors.Is(err, daterange.ErrRangeTooLarge):
			return appErrors.Wrap(err, appErrors.ErrRangeTooLarge.Code, appErrors.ErrRangeTooLarge.Status,
				fmt.Sprintf("Events may span at most %d days", daterange.MaxSpanDays))
		default:
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "End date must be on or after the start date")
		}
	}

	e.Title = strings.TrimSpace(req.Title)
	e.Slug = req.Slug
	e.Description = blankToNil(req.Description)
	e.ProgramID = blankToNil(req.ProgramID)
	e.StartDate = start
	e.EndDate = end
	e.IsAllDay = req.IsAllDay
	if e.IsAllDay {
		e.StartTime, e.EndTime = nil, nil
	} else {
		e.StartTime = blankToNil(req.StartTime)
		e.EndTime = blankToNil(req.EndTime)
	}
	e.Location = blankToNil(req.Location)
	e.IsPublished = req.IsPublished
	e.IsFeatured = req.IsFeatured
	return nil
}

func eventWriteError(err error, action string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	case repository.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "an event with this slug already exists")
	default:
		return appErrors.Store(err, action)
	}
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
