package dto

// EventRequest is the create/update payload of the event form.
// Dates are YYYY-MM-DD, times HH:MM.
type EventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Slug        string  `json:"slug" validate:"required,slug"`
	Description *string `json:"description"`
	ProgramID   *string `json:"program_id" validate:"omitempty,uuid"`
	StartDate   string  `json:"start_date" validate:"required,date"`
	EndDate     *string `json:"end_date" validate:"omitempty,date"`
	StartTime   *string `json:"start_time" validate:"omitempty,clock"`
	EndTime     *string `json:"end_time" validate:"omitempty,clock"`
	IsAllDay    bool    `json:"is_all_day"`
	Location    *string `json:"location"`
	IsPublished bool    `json:"is_published"`
	IsFeatured  bool    `json:"is_featured"`
}

// CalendarQuery selects the month grid and the highlighted day.
type CalendarQuery struct {
	Month string `form:"month"`
	Date  string `form:"date"`
}

// ExportQuery selects the export format of the admin event schedule.
type ExportQuery struct {
	Format string `form:"format"`
}
