package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/atlas-sports/site-api/internal/models"
)

const programColumns = `id, name, slug, tagline, description, logo_url, youth_ages, adult_ages, features, benefits,
what_youll_learn, what_to_bring, schedule, display_order, is_published, registration_open, registration_message, created_at, updated_at`

// ProgramRepository provides persistence for programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns programs by display order, optionally only published ones.
func (r *ProgramRepository) List(ctx context.Context, publishedOnly bool) ([]models.Program, error) {
	where := ""
	if publishedOnly {
		where = "WHERE is_published = TRUE "
	}
	query := fmt.Sprintf("SELECT %s FROM programs %sORDER BY display_order ASC, created_at ASC, id ASC", programColumns, where)
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// OrderedIDs returns every program id in display order.
func (r *ProgramRepository) OrderedIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, "SELECT id FROM programs ORDER BY display_order ASC, created_at ASC, id ASC"); err != nil {
		return nil, fmt.Errorf("list program ids: %w", err)
	}
	return ids, nil
}

// GetByID returns a program by identifier.
func (r *ProgramRepository) GetByID(ctx context.Context, id string) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program, "SELECT "+programColumns+" FROM programs WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &program, nil
}

// GetPublishedBySlug returns a published program by slug.
func (r *ProgramRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program, "SELECT "+programColumns+" FROM programs WHERE slug = $1 AND is_published = TRUE", slug); err != nil {
		return nil, err
	}
	return &program, nil
}

// Count returns the number of programs.
func (r *ProgramRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM programs"); err != nil {
		return 0, fmt.Errorf("count programs: %w", err)
	}
	return total, nil
}

// Create inserts a new program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	query := `INSERT INTO programs (` + programColumns + `)
VALUES (:id, :name, :slug, :tagline, :description, :logo_url, :youth_ages, :adult_ages, :features, :benefits,
:what_youll_learn, :what_to_bring, :schedule, :display_order, :is_published, :registration_open, :registration_message, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Update modifies an existing program, display order included.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	program.UpdatedAt = time.Now().UTC()
	query := `UPDATE programs SET name = :name, slug = :slug, tagline = :tagline, description = :description, logo_url = :logo_url,
youth_ages = :youth_ages, adult_ages = :adult_ages, features = :features, benefits = :benefits, what_youll_learn = :what_youll_learn,
what_to_bring = :what_to_bring, schedule = :schedule, display_order = :display_order, is_published = :is_published,
registration_open = :registration_open, registration_message = :registration_message, updated_at = :updated_at
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, program)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return expectRow(res)
}

// UpdateDisplayOrder rewrites the display order of one program.
func (r *ProgramRepository) UpdateDisplayOrder(ctx context.Context, id string, order int) error {
	res, err := r.db.ExecContext(ctx, "UPDATE programs SET display_order = $1, updated_at = NOW() WHERE id = $2", order, id)
	if err != nil {
		return fmt.Errorf("update program display order: %w", err)
	}
	return expectRow(res)
}

// Delete removes a program. Events and announcements keep their program_id.
func (r *ProgramRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM programs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
