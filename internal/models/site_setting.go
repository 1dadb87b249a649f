package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Site setting keys.
const (
	SettingRegistrationStatus = "registration_status"
	SettingContactInfo        = "contact_info"
)

// SiteSetting is a key/value row; Value is an opaque JSON document.
type SiteSetting struct {
	Key       string         `db:"key" json:"key"`
	Value     types.JSONText `db:"value" json:"value"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// RegistrationStatus is the site-wide registration banner.
type RegistrationStatus struct {
	IsOpen   bool   `json:"isOpen"`
	OpenDate string `json:"openDate"`
	Message  string `json:"message"`
}

// ContactInfo is the public contact block.
type ContactInfo struct {
	Email       string `json:"email"`
	ServiceArea string `json:"serviceArea"`
}

// SiteSettings bundles every singleton setting for the admin settings page.
type SiteSettings struct {
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	ContactInfo        ContactInfo        `json:"contact_info"`
}
