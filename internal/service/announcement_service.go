package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/form"
	"github.com/atlas-sports/site-api/internal/models"
	"github.com/atlas-sports/site-api/internal/query"
	"github.com/atlas-sports/site-api/internal/repository"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

// Raw HTML inside announcement markdown is escaped, WithUnsafe is not set.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// RenderMarkdown converts announcement content to HTML. On a renderer failure
// the escaped source is returned.
func RenderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return html.EscapeString(src)
	}
	return buf.String()
}

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementWithProgram, error)
	GetByID(ctx context.Context, id string) (*models.AnnouncementWithProgram, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService handles announcement workflows.
type AnnouncementService struct {
	repo        announcementRepository
	cache       *CacheService
	revalidator *RevalidationService
	clock       Clock
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, cache *CacheService, revalidator *RevalidationService, clock Clock, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = form.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, cache: cache, revalidator: revalidator, clock: clock, validator: validate, logger: logger}
}

// ListVisible returns publicly visible announcements, pinned first and then
// newest first, with rendered HTML. Store failures degrade to an empty list.
// The cache holds every published row; the publish window is applied on each
// read so scheduled announcements appear and expire on time.
func (s *AnnouncementService) ListVisible(ctx context.Context) []models.AnnouncementWithProgram {
	items, _, err := remember(ctx, s.cache, CacheKeyAnnouncements, func(ctx context.Context) ([]models.AnnouncementWithProgram, error) {
		return s.repo.List(ctx, models.AnnouncementFilter{PublishedOnly: true})
	})
	if err != nil {
		s.logger.Warn("failed to load announcements", zap.Error(err))
		return []models.AnnouncementWithProgram{}
	}
	now := s.clock.now()
	items = query.Filter(items, func(a models.AnnouncementWithProgram) bool {
		return query.AnnouncementIsVisible(a.Announcement, now)
	})
	query.SortAnnouncements(items)
	for i := range items {
		items[i].ContentHTML = RenderMarkdown(items[i].Content)
	}
	return items
}

// ListLatest returns the first limit visible announcements; limit <= 0 means 3.
func (s *AnnouncementService) ListLatest(ctx context.Context, limit int) []models.AnnouncementWithProgram {
	if limit <= 0 {
		limit = query.DefaultLatestLimit
	}
	return query.Limit(s.ListVisible(ctx), limit)
}

// ListAll returns every announcement for the admin list, newest first.
func (s *AnnouncementService) ListAll(ctx context.Context) ([]models.AnnouncementWithProgram, error) {
	items, err := s.repo.List(ctx, models.AnnouncementFilter{})
	if err != nil {
		return nil, appErrors.Store(err, "load announcements")
	}
	if items == nil {
		items = []models.AnnouncementWithProgram{}
	}
	return items, nil
}

// Get returns an announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.AnnouncementWithProgram, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Store(err, "load announcement")
	}
	item.ContentHTML = RenderMarkdown(item.Content)
	return item, nil
}

// Create registers a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, req dto.AnnouncementRequest) (*models.Announcement, error) {
	ann := &models.Announcement{}
	if err := s.apply(ann, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ann); err != nil {
		return nil, announcementWriteError(err, "create announcement")
	}
	s.logger.Info("announcement created", zap.String("announcement_id", ann.ID), zap.Bool("pinned", ann.IsPinned))
	s.revalidator.Revalidate(ctx, "announcement:create")
	return ann, nil
}

// Update replaces an announcement's fields.
func (s *AnnouncementService) Update(ctx context.Context, id string, req dto.AnnouncementRequest) (*models.Announcement, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ann := &existing.Announcement
	if err := s.apply(ann, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ann); err != nil {
		return nil, announcementWriteError(err, "update announcement")
	}
	s.revalidator.Revalidate(ctx, "announcement:update")
	return ann, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return announcementWriteError(err, "delete announcement")
	}
	s.revalidator.Revalidate(ctx, "announcement:delete")
	return nil
}

func (s *AnnouncementService) apply(a *models.Announcement, req dto.AnnouncementRequest) error {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, form.Message(err))
	}
	if req.PublishAt != nil && req.ExpiresAt != nil && !req.ExpiresAt.After(*req.PublishAt) {
		return appErrors.Clone(appErrors.ErrValidation, "Expires at must be after publish at")
	}
	a.Title = strings.TrimSpace(req.Title)
	a.Slug = req.Slug
	a.Content = req.Content
	a.Excerpt = blankToNil(req.Excerpt)
	a.ImageURL = blankToNil(req.ImageURL)
	a.ProgramID = blankToNil(req.ProgramID)
	a.IsPublished = req.IsPublished
	a.IsPinned = req.IsPinned
	a.PublishAt = req.PublishAt
	a.ExpiresAt = req.ExpiresAt
	return nil
}

func announcementWriteError(err error, action string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	case repository.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "an announcement with this slug already exists")
	default:
		return appErrors.Store(err, action)
	}
}
