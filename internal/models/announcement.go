package models

import "time"

// Announcement represents a persisted announcement row. Content is markdown.
type Announcement struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Content     string     `db:"content" json:"content"`
	Excerpt     *string    `db:"excerpt" json:"excerpt,omitempty"`
	ImageURL    *string    `db:"image_url" json:"image_url,omitempty"`
	ProgramID   *string    `db:"program_id" json:"program_id,omitempty"`
	IsPublished bool       `db:"is_published" json:"is_published"`
	IsPinned    bool       `db:"is_pinned" json:"is_pinned"`
	PublishAt   *time.Time `db:"publish_at" json:"publish_at,omitempty"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AnnouncementWithProgram carries the optional program join and rendered HTML.
type AnnouncementWithProgram struct {
	Announcement
	Program     *ProgramRef `json:"program"`
	ContentHTML string      `json:"content_html,omitempty"`
}

// AnnouncementFilter narrows announcement listings. With neither
// PublishedOnly nor VisibleAt set every row is listed.
type AnnouncementFilter struct {
	// PublishedOnly keeps published rows regardless of their publish window.
	PublishedOnly bool
	VisibleAt     *time.Time
	Limit         int
}
