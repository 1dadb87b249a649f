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

const eventSelect = `SELECT e.id, e.title, e.slug, e.description, e.program_id, e.start_date, e.end_date, e.start_time, e.end_time,
e.is_all_day, e.location, e.is_published, e.is_featured, e.created_at, e.updated_at,
p.id AS program_ref_id, p.name AS program_name, p.slug AS program_slug
FROM events e LEFT JOIN programs p ON p.id = e.program_id`

type eventRow struct {
	models.Event
	ProgramRefID *string `db:"program_ref_id"`
	ProgramName  *string `db:"program_name"`
	ProgramSlug  *string `db:"program_slug"`
}

func (row eventRow) toModel() models.EventWithProgram {
	out := models.EventWithProgram{Event: row.Event}
	if row.ProgramRefID != nil && row.ProgramName != nil {
		out.Program = &models.ProgramRef{ID: *row.ProgramRefID, Name: *row.ProgramName, Slug: deref(row.ProgramSlug)}
	}
	return out
}

// EventRepository provides persistence for events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events joined to their program. A filter with a window start
// applies the public current-event predicate.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.EventWithProgram, error) {
	where := []string{}
	args := []interface{}{}
	if filter.WindowStart != nil {
		args = append(args, filter.WindowStart.Format("2006-01-02"))
		if filter.FeaturedOnly {
			where = append(where, query.FeaturedEventsSQL)
		} else {
			where = append(where, query.PublishedEventsSQL)
		}
	} else if filter.PublishedOnly {
		where = append(where, "e.is_published = TRUE")
	}
	if filter.ProgramID != nil {
		args = append(args, *filter.ProgramID)
		where = append(where, fmt.Sprintf("e.program_id = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(eventSelect)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	if filter.Ascending {
		sb.WriteString(" ORDER BY " + query.EventsAscendingSQL)
	} else {
		sb.WriteString(" ORDER BY " + query.EventsDescendingSQL)
	}
	if filter.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", filter.Limit)
	}

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return toEventModels(rows), nil
}

// ListOverlapping returns published events sharing at least one day with [from, to].
func (r *EventRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]models.EventWithProgram, error) {
	q := eventSelect + ` WHERE e.is_published = TRUE AND e.start_date <= $2 AND COALESCE(e.end_date, e.start_date) >= $1
ORDER BY ` + query.EventsAscendingSQL
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, q, from.Format("2006-01-02"), to.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list events in range: %w", err)
	}
	return toEventModels(rows), nil
}

// GetByID returns an event by identifier with its program.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.EventWithProgram, error) {
	var row eventRow
	if err := r.db.GetContext(ctx, &row, eventSelect+" WHERE e.id = $1", id); err != nil {
		return nil, err
	}
	ev := row.toModel()
	return &ev, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	q := `INSERT INTO events (id, title, slug, description, program_id, start_date, end_date, start_time, end_time, is_all_day, location, is_published, is_featured, created_at, updated_at)
VALUES (:id, :title, :slug, :description, :program_id, :start_date, :end_date, :start_time, :end_time, :is_all_day, :location, :is_published, :is_featured, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update modifies an existing event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	q := `UPDATE events SET title = :title, slug = :slug, description = :description, program_id = :program_id, start_date = :start_date,
end_date = :end_date, start_time = :start_time, end_time = :end_time, is_all_day = :is_all_day, location = :location,
is_published = :is_published, is_featured = :is_featured, updated_at = :updated_at
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return expectRow(res)
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return expectRow(res)
}

func toEventModels(rows []eventRow) []models.EventWithProgram {
	out := make([]models.EventWithProgram, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
