package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/atlas-sports/site-api/internal/models"
	"github.com/atlas-sports/site-api/internal/query"
)

const announcementSelect = `SELECT a.id, a.title, a.slug, a.content, a.excerpt, a.image_url, a.program_id, a.is_published, a.is_pinned,
a.publish_at, a.expires_at, a.created_at, a.updated_at,
p.id AS program_ref_id, p.name AS program_name, p.slug AS program_slug
FROM announcements a LEFT JOIN programs p ON p.id = a.program_id`

type announcementRow struct {
	models.Announcement
	ProgramRefID *string `db:"program_ref_id"`
	ProgramName  *string `db:"program_name"`
	ProgramSlug  *string `db:"program_slug"`
}

func (row announcementRow) toModel() models.AnnouncementWithProgram {
	out := models.AnnouncementWithProgram{Announcement: row.Announcement}
	if row.ProgramRefID != nil && row.ProgramName != nil {
		out.Program = &models.ProgramRef{ID: *row.ProgramRefID, Name: *row.ProgramName, Slug: deref(row.ProgramSlug)}
	}
	return out
}

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements with their program. With VisibleAt set only
// publicly visible rows come back, and with PublishedOnly every published
// row; both are ordered pinned first. Otherwise every row, newest first.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementWithProgram, error) {
	var sb strings.Builder
	sb.WriteString(announcementSelect)
	args := []interface{}{}
	switch {
	case filter.VisibleAt != nil:
		args = append(args, filter.VisibleAt.UTC())
		sb.WriteString(" WHERE " + query.VisibleAnnouncementsSQL)
		sb.WriteString(" ORDER BY " + query.AnnouncementsOrderSQL)
	case filter.PublishedOnly:
		sb.WriteString(" WHERE " + query.PublishedAnnouncementsSQL)
		sb.WriteString(" ORDER BY " + query.AnnouncementsOrderSQL)
	default:
		sb.WriteString(" ORDER BY " + query.AdminAnnouncementsOrderSQL)
	}
	if filter.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", filter.Limit)
	}

	var rows []announcementRow
	if err := r.db.SelectContext(ctx, &rows, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	out := make([]models.AnnouncementWithProgram, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// GetByID returns an announcement by identifier.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.AnnouncementWithProgram, error) {
	var row announcementRow
	if err := r.db.GetContext(ctx, &row, announcementSelect+" WHERE a.id = $1", id); err != nil {
		return nil, err
	}
	a := row.toModel()
	return &a, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	announcement.CreatedAt = now
	announcement.UpdatedAt = now
	q := `INSERT INTO announcements (id, title, slug, content, excerpt, image_url, program_id, is_published, is_pinned, publish_at, expires_at, created_at, updated_at)
VALUES (:id, :title, :slug, :content, :excerpt, :image_url, :program_id, :is_published, :is_pinned, :publish_at, :expires_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies an existing announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()
	q := `UPDATE announcements SET title = :title, slug = :slug, content = :content, excerpt = :excerpt, image_url = :image_url,
program_id = :program_id, is_published = :is_published, is_pinned = :is_pinned, publish_at = :publish_at, expires_at = :expires_at,
updated_at = :updated_at
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, announcement)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return expectRow(res)
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return expectRow(res)
}
