package dto

import "strings"

func blank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// Normalize turns blank optional fields into nil so format rules only see real input.
func (r *ProgramRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	r.LogoURL = blank(r.LogoURL)
}

// Normalize turns blank optional fields into nil so format rules only see real input.
func (r *EventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Slug = strings.TrimSpace(r.Slug)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = blank(r.EndDate)
	r.StartTime = blank(r.StartTime)
	r.EndTime = blank(r.EndTime)
	r.ProgramID = blank(r.ProgramID)
}

// Normalize turns blank optional fields into nil so format rules only see real input.
func (r *AnnouncementRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Slug = strings.TrimSpace(r.Slug)
	r.ImageURL = blank(r.ImageURL)
	r.ProgramID = blank(r.ProgramID)
}
