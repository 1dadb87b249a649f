package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name      string  `json:"name" validate:"required"`
	Slug      string  `json:"slug" validate:"required,slug"`
	StartDate string  `json:"start_date" validate:"required,date"`
	StartTime *string `json:"start_time" validate:"omitempty,clock"`
}

func TestValidatorMessages(t *testing.T) {
	v := NewValidator()

	err := v.Struct(sample{Slug: "ok", StartDate: "2026-03-10"})
	require.Error(t, err)
	assert.Equal(t, "Name is required", Message(err))

	err = v.Struct(sample{Name: "n", Slug: "Not OK", StartDate: "2026-03-10"})
	assert.Equal(t, "Slug must contain only lowercase letters, numbers, and hyphens", Message(err))

	err = v.Struct(sample{Name: "n", Slug: "ok", StartDate: "tomorrow"})
	assert.Equal(t, "Start date must be a date in YYYY-MM-DD format", Message(err))

	bad := "25:00"
	err = v.Struct(sample{Name: "n", Slug: "ok", StartDate: "2026-03-10", StartTime: &bad})
	assert.Equal(t, "Start time must be a time in HH:MM format", Message(err))

	good := "18:30"
	assert.NoError(t, v.Struct(sample{Name: "n", Slug: "ok", StartDate: "2026-03-10", StartTime: &good}))
}

func TestMessagePassesThroughOtherErrors(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Equal(t, "", Message(nil))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "What you'll learn", Label("what_youll_learn"))
	assert.Equal(t, "Youth ages", Label("youth_ages"))
}
