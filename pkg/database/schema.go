package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS programs (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE CHECK (slug ~ '^[a-z0-9-]+$'),
	tagline TEXT,
	description TEXT,
	logo_url TEXT,
	youth_ages TEXT,
	adult_ages TEXT,
	features TEXT[] NOT NULL DEFAULT '{}',
	benefits TEXT[] NOT NULL DEFAULT '{}',
	what_youll_learn TEXT[] NOT NULL DEFAULT '{}',
	what_to_bring TEXT[] NOT NULL DEFAULT '{}',
	schedule TEXT,
	display_order INTEGER NOT NULL DEFAULT 0,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	registration_open BOOLEAN NOT NULL DEFAULT FALSE,
	registration_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL,
	slug TEXT NOT NULL,
	description TEXT,
	program_id UUID,
	start_date DATE NOT NULL,
	end_date DATE CHECK (end_date IS NULL OR end_date >= start_date),
	start_time TEXT,
	end_time TEXT,
	is_all_day BOOLEAN NOT NULL DEFAULT FALSE,
	location TEXT,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_events_published_dates ON events (is_published, start_date, end_date);

CREATE TABLE IF NOT EXISTS announcements (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL,
	slug TEXT NOT NULL,
	content TEXT NOT NULL,
	excerpt TEXT,
	image_url TEXT,
	program_id UUID,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
	publish_at TIMESTAMPTZ,
	expires_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_announcements_visibility ON announcements (is_published, is_pinned DESC, created_at DESC);

CREATE TABLE IF NOT EXISTS site_settings (
	key TEXT PRIMARY KEY,
	value JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS admin_users (
	user_id UUID PRIMARY KEY,
	role TEXT NOT NULL DEFAULT 'admin',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate creates the site tables when they do not exist yet.
// program_id columns carry no foreign key: deleting a program leaves
// referencing rows in place.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
