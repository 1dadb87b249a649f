package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/atlas-sports/site-api/internal/models"
)

// SiteSettingRepository stores key/value site settings.
type SiteSettingRepository struct {
	db *sqlx.DB
}

// NewSiteSettingRepository creates the repository.
func NewSiteSettingRepository(db *sqlx.DB) *SiteSettingRepository {
	return &SiteSettingRepository{db: db}
}

// Get returns the setting stored under key.
func (r *SiteSettingRepository) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	var setting models.SiteSetting
	if err := r.db.GetContext(ctx, &setting, "SELECT key, value, updated_at FROM site_settings WHERE key = $1", key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert writes value under key, replacing any previous document.
func (r *SiteSettingRepository) Upsert(ctx context.Context, key string, value types.JSONText) (*models.SiteSetting, error) {
	setting := &models.SiteSetting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	q := `INSERT INTO site_settings (key, value, updated_at) VALUES (:key, :value, :updated_at)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, q, setting); err != nil {
		return nil, fmt.Errorf("upsert site setting %s: %w", key, err)
	}
	return setting, nil
}
