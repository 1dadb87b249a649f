package models

import (
	"time"

	"github.com/lib/pq"
)

// Program is a recurring sports offering listed on the public site.
type Program struct {
	ID                  string         `db:"id" json:"id"`
	Name                string         `db:"name" json:"name"`
	Slug                string         `db:"slug" json:"slug"`
	Tagline             *string        `db:"tagline" json:"tagline,omitempty"`
	Description         *string        `db:"description" json:"description,omitempty"`
	LogoURL             *string        `db:"logo_url" json:"logo_url,omitempty"`
	YouthAges           *string        `db:"youth_ages" json:"youth_ages,omitempty"`
	AdultAges           *string        `db:"adult_ages" json:"adult_ages,omitempty"`
	Features            pq.StringArray `db:"features" json:"features"`
	Benefits            pq.StringArray `db:"benefits" json:"benefits"`
	WhatYoullLearn      pq.StringArray `db:"what_youll_learn" json:"what_youll_learn"`
	WhatToBring         pq.StringArray `db:"what_to_bring" json:"what_to_bring"`
	Schedule            *string        `db:"schedule" json:"schedule,omitempty"`
	DisplayOrder        int            `db:"display_order" json:"display_order"`
	IsPublished         bool           `db:"is_published" json:"is_published"`
	RegistrationOpen    bool           `db:"registration_open" json:"registration_open"`
	RegistrationMessage *string        `db:"registration_message" json:"registration_message,omitempty"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// ProgramRef is the slice of a program joined onto events and announcements.
type ProgramRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProgramDetail is a published program with its current events.
type ProgramDetail struct {
	Program
	Events []EventWithProgram `json:"events"`
}

// ProgramRegistration is the per-program registration state shown on the registration page.
type ProgramRegistration struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Slug                string  `json:"slug"`
	YouthAges           *string `json:"youth_ages,omitempty"`
	AdultAges           *string `json:"adult_ages,omitempty"`
	RegistrationOpen    bool    `json:"registration_open"`
	RegistrationMessage *string `json:"registration_message,omitempty"`
}

// RegistrationOverview combines the site banner with per-program state.
type RegistrationOverview struct {
	Banner   RegistrationStatus    `json:"banner"`
	Programs []ProgramRegistration `json:"programs"`
}
