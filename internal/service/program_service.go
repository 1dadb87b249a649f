package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/form"
	"github.com/atlas-sports/site-api/internal/models"
	"github.com/atlas-sports/site-api/internal/query"
	"github.com/atlas-sports/site-api/internal/reorder"
	"github.com/atlas-sports/site-api/internal/repository"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

type programRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]models.Program, error)
	OrderedIDs(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*models.Program, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Program, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	UpdateDisplayOrder(ctx context.Context, id string, order int) error
	Delete(ctx context.Context, id string) error
}

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.EventWithProgram, error)
	ListOverlapping(ctx context.Context, from, to time.Time) ([]models.EventWithProgram, error)
	GetByID(ctx context.Context, id string) (*models.EventWithProgram, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

type registrationBanner interface {
	RegistrationStatus(ctx context.Context) models.RegistrationStatus
}

// ProgramService handles program workflows for the public site and the back office.
type ProgramService struct {
	repo        programRepository
	events      eventRepository
	banner      registrationBanner
	cache       *CacheService
	revalidator *RevalidationService
	metrics     *MetricsService
	clock       Clock
	validator   *validator.Validate
	logger      *zap.Logger
}

// ProgramServiceConfig groups optional collaborators of ProgramService.
type ProgramServiceConfig struct {
	Events      eventRepository
	Banner      registrationBanner
	Cache       *CacheService
	Revalidator *RevalidationService
	Metrics     *MetricsService
	Clock       Clock
}

// NewProgramService constructs the service.
func NewProgramService(repo programRepository, cfg ProgramServiceConfig, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = form.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{
		repo:        repo,
		events:      cfg.Events,
		banner:      cfg.Banner,
		cache:       cfg.Cache,
		revalidator: cfg.Revalidator,
		metrics:     cfg.Metrics,
		clock:       cfg.Clock,
		validator:   validate,
		logger:      logger,
	}
}

// ListPublished returns published programs by display order. Store failures
// degrade to an empty list.
func (s *ProgramService) ListPublished(ctx context.Context) []models.Program {
	programs, _, err := remember(ctx, s.cache, CacheKeyPrograms, func(ctx context.Context) ([]models.Program, error) {
		start := time.Now()
		defer func() { s.metrics.ObserveDBQuery("programs_published", time.Since(start)) }()
		return s.repo.List(ctx, true)
	})
	if err != nil {
		s.logger.Warn("failed to load published programs", zap.Error(err))
		return []models.Program{}
	}
	return query.Filter(programs, func(p models.Program) bool { return p.IsPublished })
}

// GetPublishedBySlug returns a published program with its current published events.
func (s *ProgramService) GetPublishedBySlug(ctx context.Context, slug string) (*models.ProgramDetail, error) {
	key := fmt.Sprintf(CacheKeyProgramDetailFmt, slug)
	program, _, err := remember(ctx, s.cache, key, func(ctx context.Context) (*models.Program, error) {
		return s.repo.GetPublishedBySlug(ctx, slug)
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load program", zap.String("slug", slug), zap.Error(err))
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	if program == nil || !program.IsPublished {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}

	detail := &models.ProgramDetail{Program: *program, Events: []models.EventWithProgram{}}
	if s.events == nil {
		return detail, nil
	}
	today := s.clock.Today()
	events, err := s.events.List(ctx, models.EventFilter{WindowStart: &today, ProgramID: &program.ID, Ascending: true})
	if err != nil {
		s.logger.Warn("failed to load program events", zap.String("program_id", program.ID), zap.Error(err))
		return detail, nil
	}
	detail.Events = decorateEvents(query.Filter(events, func(e models.EventWithProgram) bool {
		return query.EventIsPublic(e.Event, today)
	}))
	return detail, nil
}

// RegistrationOverview lists published programs with their own registration
// state next to the site-wide banner.
func (s *ProgramService) RegistrationOverview(ctx context.Context) models.RegistrationOverview {
	overview := models.RegistrationOverview{Banner: DefaultRegistrationStatus(), Programs: []models.ProgramRegistration{}}
	if s.banner != nil {
		overview.Banner = s.banner.RegistrationStatus(ctx)
	}
	for _, p := range s.ListPublished(ctx) {
		overview.Programs = append(overview.Programs, models.ProgramRegistration{
			ID:                  p.ID,
			Name:                p.Name,
			Slug:                p.Slug,
			YouthAges:           p.YouthAges,
			AdultAges:           p.AdultAges,
			RegistrationOpen:    p.RegistrationOpen,
			RegistrationMessage: p.RegistrationMessage,
		})
	}
	return overview
}

// ListAll returns every program for the admin list.
func (s *ProgramService) ListAll(ctx context.Context) ([]models.Program, error) {
	programs, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, appErrors.Store(err, "load programs")
	}
	if programs == nil {
		programs = []models.Program{}
	}
	return programs, nil
}

// Get returns a program by id.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Store(err, "load program")
	}
	return program, nil
}

// Create registers a new program. Without an explicit display order it is
// appended after the existing programs.
func (s *ProgramService) Create(ctx context.Context, req dto.ProgramRequest) (*models.Program, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, form.Message(err))
	}
	program := &models.Program{}
	applyProgramRequest(program, req)
	if req.DisplayOrder != nil {
		program.DisplayOrder = *req.DisplayOrder
	} else {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return nil, appErrors.Store(err, "create program")
		}
		program.DisplayOrder = count
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, s.writeError(err, "create program")
	}
	s.logger.Info("program created", zap.String("program_id", program.ID), zap.String("slug", program.Slug))
	s.revalidator.Revalidate(ctx, "program:create")
	return program, nil
}

// Update replaces a program's fields. The display order is kept unless the
// request sets one.
func (s *ProgramService) Update(ctx context.Context, id string, req dto.ProgramRequest) (*models.Program, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, form.Message(err))
	}
	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProgramRequest(program, req)
	if req.DisplayOrder != nil {
		program.DisplayOrder = *req.DisplayOrder
	}
	if err := s.repo.Update(ctx, program); err != nil {
		return nil, s.writeError(err, "update program")
	}
	s.revalidator.Revalidate(ctx, "program:update")
	return program, nil
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.writeError(err, "delete program")
	}
	s.logger.Info("program deleted", zap.String("program_id", id))
	s.revalidator.Revalidate(ctx, "program:delete")
	return nil
}

// Reorder persists ids as the new display order: display_order = index, one
// row at a time in ascending index order. ids must list every stored program
// exactly once so the result is a dense order; anything else is rejected
// before the first write. The first failed write stops the sequence; rows
// already written keep their new order.
func (s *ProgramService) Reorder(ctx context.Context, req dto.ReorderProgramsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, form.Message(err))
	}
	stored, err := s.repo.OrderedIDs(ctx)
	if err != nil {
		return appErrors.Store(err, "load program order")
	}
	if !samePrograms(stored, req.IDs) {
		return appErrors.Clone(appErrors.ErrValidation, "ids must list every program exactly once")
	}
	if err := s.persistOrder(context.WithoutCancel(ctx), req.IDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "program not found")
		}
		return appErrors.Store(err, "reorder programs")
	}
	s.revalidator.Revalidate(ctx, "program:reorder")
	return nil
}

// Move drags the program at req.From onto req.To over the current stored
// order. A nil To, or To equal to From, cancels the gesture without writes.
// When persisting fails the returned order is the one before the move.
func (s *ProgramService) Move(ctx context.Context, req dto.MoveProgramRequest) (*dto.MoveProgramResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, form.Message(err))
	}
	ids, err := s.repo.OrderedIDs(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "load program order")
	}

	session := reorder.NewSession(ids, reorder.PersisterFunc(s.persistOrder))
	if err := session.Start(req.From); err != nil {
		return nil, moveError(err)
	}
	if req.To != nil {
		if err := session.Hover(*req.To); err != nil {
			return nil, moveError(err)
		}
	} else {
		session.Leave()
	}

	out, err := session.Drop(ctx)
	resp := &dto.MoveProgramResponse{
		Phase:      out.Phase.String(),
		Order:      out.Order,
		Persisted:  out.Persisted,
		RolledBack: out.RolledBack,
	}
	if err != nil {
		s.logger.Warn("program move rolled back", zap.Int("from", req.From), zap.Error(err))
		return resp, appErrors.Store(err, "reorder programs")
	}
	if out.Persisted {
		s.revalidator.Revalidate(ctx, "program:reorder")
	}
	return resp, nil
}

// samePrograms reports whether ids is a permutation of stored.
func samePrograms(stored, ids []string) bool {
	if len(stored) != len(ids) {
		return false
	}
	remaining := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		remaining[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := remaining[id]; !ok {
			return false
		}
		delete(remaining, id)
	}
	return true
}

func (s *ProgramService) persistOrder(ctx context.Context, ids []string) error {
	start := time.Now()
	defer func() { s.metrics.ObserveDBQuery("programs_reorder", time.Since(start)) }()
	for i, id := range ids {
		if err := s.repo.UpdateDisplayOrder(ctx, id, i); err != nil {
			s.metrics.RecordReorderWrite(false)
			return fmt.Errorf("program %s: %w", id, err)
		}
		s.metrics.RecordReorderWrite(true)
	}
	return nil
}

func (s *ProgramService) writeError(err error, action string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "program not found")
	case repository.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "a program with this slug already exists")
	default:
		return appErrors.Store(err, action)
	}
}

func moveError(err error) error {
	if errors.Is(err, reorder.ErrIndexOutOfRange) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "position is outside the program list")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
}

func applyProgramRequest(p *models.Program, req dto.ProgramRequest) {
	p.Name = req.Name
	p.Slug = req.Slug
	p.Tagline = blankToNil(req.Tagline)
	p.Description = blankToNil(req.Description)
	p.LogoURL = blankToNil(req.LogoURL)
	p.YouthAges = blankToNil(req.YouthAges)
	p.AdultAges = blankToNil(req.AdultAges)
	p.Features = pq.StringArray(form.CleanItems(req.Features))
	p.Benefits = pq.StringArray(form.CleanItems(req.Benefits))
	p.WhatYoullLearn = pq.StringArray(form.CleanItems(req.WhatYoullLearn))
	p.WhatToBring = pq.StringArray(form.CleanItems(req.WhatToBring))
	p.Schedule = blankToNil(req.Schedule)
	p.IsPublished = req.IsPublished
	p.RegistrationOpen = req.RegistrationOpen
	p.RegistrationMessage = blankToNil(req.RegistrationMessage)
}
