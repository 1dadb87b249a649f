package dto

import "time"

// AnnouncementRequest is the create/update payload of the announcement form.
type AnnouncementRequest struct {
	Title       string     `json:"title" validate:"required"`
	Slug        string     `json:"slug" validate:"required,slug"`
	Content     string     `json:"content" validate:"required"`
	Excerpt     *string    `json:"excerpt"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	ProgramID   *string    `json:"program_id" validate:"omitempty,uuid"`
	IsPublished bool       `json:"is_published"`
	IsPinned    bool       `json:"is_pinned"`
	PublishAt   *time.Time `json:"publish_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}
