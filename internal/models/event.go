package models

import "time"

// Event is a dated calendar item, optionally tied to a program.
// StartDate and EndDate are calendar dates; EndDate is inclusive.
type Event struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Description *string    `db:"description" json:"description,omitempty"`
	ProgramID   *string    `db:"program_id" json:"program_id,omitempty"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	StartTime   *string    `db:"start_time" json:"start_time,omitempty"`
	EndTime     *string    `db:"end_time" json:"end_time,omitempty"`
	IsAllDay    bool       `db:"is_all_day" json:"is_all_day"`
	Location    *string    `db:"location" json:"location,omitempty"`
	IsPublished bool       `db:"is_published" json:"is_published"`
	IsFeatured  bool       `db:"is_featured" json:"is_featured"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// EventWithProgram carries the optional program join. A nil Program means the
// event has no program or references one that no longer exists.
type EventWithProgram struct {
	Event
	Program     *ProgramRef `json:"program"`
	DisplayTime string      `json:"display_time,omitempty"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	PublishedOnly bool
	FeaturedOnly  bool
	WindowStart   *time.Time
	ProgramID     *string
	Limit         int
	Ascending     bool
}

// CalendarView is the public calendar payload for a month and selected date.
type CalendarView struct {
	Month        string             `json:"month"`
	SelectedDate string             `json:"selected_date"`
	PastDates    []string           `json:"past_dates"`
	CurrentDates []string           `json:"current_dates"`
	SelectedDay  []EventWithProgram `json:"selected_day_events"`
	MonthEvents  []EventWithProgram `json:"month_events"`
	Upcoming     []EventWithProgram `json:"upcoming_events"`
}
