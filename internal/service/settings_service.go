package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/atlas-sports/site-api/internal/dto"
	"github.com/atlas-sports/site-api/internal/form"
	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

// Built-in setting values used when a row is missing or unreadable.
const (
	DefaultRegistrationOpenDate = "Late January 2026"
	DefaultRegistrationMessage  = "Registration will open late January 2026. Check back soon!"
	DefaultContactEmail         = "info@atlassportsgroup.com"
)

// DefaultRegistrationStatus is the banner shown without a stored setting.
func DefaultRegistrationStatus() models.RegistrationStatus {
	return models.RegistrationStatus{IsOpen: false, OpenDate: DefaultRegistrationOpenDate, Message: DefaultRegistrationMessage}
}

// DefaultContactInfo is the contact block shown without a stored setting.
func DefaultContactInfo() models.ContactInfo {
	return models.ContactInfo{Email: DefaultContactEmail}
}

type siteSettingRepository interface {
	Get(ctx context.Context, key string) (*models.SiteSetting, error)
	Upsert(ctx context.Context, key string, value types.JSONText) (*models.SiteSetting, error)
}

// SettingsService reads and writes the singleton site settings.
type SettingsService struct {
	repo        siteSettingRepository
	cache       *CacheService
	revalidator *RevalidationService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo siteSettingRepository, cache *CacheService, revalidator *RevalidationService, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = form.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, revalidator: revalidator, validator: validate, logger: logger}
}

// RegistrationStatus returns the site registration banner, or the default.
func (s *SettingsService) RegistrationStatus(ctx context.Context) models.RegistrationStatus {
	status := DefaultRegistrationStatus()
	s.load(ctx, models.SettingRegistrationStatus, &status)
	return status
}

// ContactInfo returns the public contact block, or the default.
func (s *SettingsService) ContactInfo(ctx context.Context) models.ContactInfo {
	info := DefaultContactInfo()
	s.load(ctx, models.SettingContactInfo, &info)
	if info.Email == "" {
		info.Email = DefaultContactEmail
	}
	return info
}

// All returns every setting for the admin settings page.
func (s *SettingsService) All(ctx context.Context) models.SiteSettings {
	return models.SiteSettings{
		RegistrationStatus: s.RegistrationStatus(ctx),
		ContactInfo:        s.ContactInfo(ctx),
	}
}

// UpdateRegistrationStatus stores the registration banner.
func (s *SettingsService) UpdateRegistrationStatus(ctx context.Context, req dto.RegistrationStatusRequest) (*models.RegistrationStatus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, form.Message(err))
	}
	status := models.RegistrationStatus{
		IsOpen:   req.IsOpen,
		OpenDate: strings.TrimSpace(req.OpenDate),
		Message:  strings.TrimSpace(req.Message),
	}
	if err := s.save(ctx, models.SettingRegistrationStatus, status, "update registration status"); err != nil {
		return nil, err
	}
	return &status, nil
}

// UpdateContactInfo stores the contact block.
func (s *SettingsService) UpdateContactInfo(ctx context.Context, req dto.ContactInfoRequest) (*models.ContactInfo, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, form.Message(err))
	}
	info := models.ContactInfo{Email: req.Email, ServiceArea: strings.TrimSpace(req.ServiceArea)}
	if err := s.save(ctx, models.SettingContactInfo, info, "update contact info"); err != nil {
		return nil, err
	}
	return &info, nil
}

// load decodes the stored value of key over dest, leaving dest untouched when
// the row is missing or cannot be read.
func (s *SettingsService) load(ctx context.Context, key string, dest interface{}) {
	cacheKey := CacheKeySettingsPrefix + key
	raw, _, err := remember(ctx, s.cache, cacheKey, func(ctx context.Context) (types.JSONText, error) {
		setting, err := s.repo.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return setting.Value, nil
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load site setting, using default", zap.String("key", key), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("malformed site setting, using default", zap.String("key", key), zap.Error(err))
	}
}

func (s *SettingsService) save(ctx context.Context, key string, value interface{}, action string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode setting")
	}
	if _, err := s.repo.Upsert(ctx, key, types.JSONText(raw)); err != nil {
		return appErrors.Store(err, action)
	}
	s.logger.Info("site setting updated", zap.String("key", key))
	s.revalidator.Revalidate(ctx, "settings:"+key)
	return nil
}
