// Package form models the admin edit forms: slug derivation, progressive
// required-field validation, tag-list editing and single-payload submission.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/atlas-sports/site-api/pkg/daterange"
)

// Kind identifies the entity a form edits.
type Kind string

const (
	KindProgram      Kind = "program"
	KindEvent        Kind = "event"
	KindAnnouncement Kind = "announcement"
)

// Mode distinguishes creating a new entity from editing an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ErrSubmitInFlight rejects a second Submit before Complete.
var ErrSubmitInFlight = errors.New("submission already in progress")

// Schema lists the fields of one form kind.
type Schema struct {
	// TitleField drives slug derivation in create mode.
	TitleField string
	Required   []string
	Fields     []string
	Dates      []string
	Arrays     []string
	Toggles    []string
}

var schemas = map[Kind]Schema{
	KindProgram: {
		TitleField: "name",
		Required:   []string{"name", "slug"},
		Fields:     []string{"name", "slug", "tagline", "description", "logo_url", "youth_ages", "adult_ages", "schedule", "registration_message"},
		Arrays:     []string{"features", "benefits", "what_youll_learn", "what_to_bring"},
		Toggles:    []string{"is_published", "registration_open"},
	},
	KindEvent: {
		TitleField: "title",
		Required:   []string{"title", "slug", "start_date"},
		Fields:     []string{"title", "slug", "description", "program_id", "start_date", "end_date", "start_time", "end_time", "location"},
		Dates:      []string{"start_date", "end_date"},
		Toggles:    []string{"is_all_day", "is_published", "is_featured"},
	},
	KindAnnouncement: {
		TitleField: "title",
		Required:   []string{"title", "slug", "content"},
		Fields:     []string{"title", "slug", "content", "excerpt", "image_url", "program_id", "publish_at", "expires_at"},
		Toggles:    []string{"is_published", "is_pinned"},
	},
}

// SchemaFor returns the schema of kind.
func SchemaFor(kind Kind) (Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}

// FieldError is one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists failed fields in form order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

// State is the client-side state of one form instance. It is not safe for
// concurrent use; each editing session owns its own State.
type State struct {
	kind   Kind
	mode   Mode
	schema Schema

	values  map[string]string
	arrays  map[string]*ArrayField
	toggles map[string]bool
	touched map[string]bool

	submitting  bool
	scrollToTop bool
	serverError string
}

// New returns an empty form of kind in mode.
func New(kind Kind, mode Mode) (*State, error) {
	schema, ok := schemas[kind]
	if !ok {
		return nil, fmt.Errorf("unknown form kind %q", kind)
	}
	if mode != ModeCreate && mode != ModeEdit {
		return nil, fmt.Errorf("unknown form mode %q", mode)
	}
	s := &State{
		kind:    kind,
		mode:    mode,
		schema:  schema,
		values:  make(map[string]string, len(schema.Fields)),
		arrays:  make(map[string]*ArrayField, len(schema.Arrays)),
		toggles: make(map[string]bool, len(schema.Toggles)),
		touched: make(map[string]bool),
	}
	for _, name := range schema.Arrays {
		s.arrays[name] = &ArrayField{}
	}
	return s, nil
}

// Kind of the form.
func (s *State) Kind() Kind { return s.kind }

// Mode of the form.
func (s *State) Mode() Mode { return s.mode }

// Load fills the form with stored values without deriving anything.
func (s *State) Load(values map[string]string, arrays map[string][]string, toggles map[string]bool) {
	for _, f := range s.schema.Fields {
		if v, ok := values[f]; ok {
			s.values[f] = v
		}
	}
	for name, items := range arrays {
		if field, ok := s.arrays[name]; ok {
			field.items = append([]string(nil), items...)
		}
	}
	for _, t := range s.schema.Toggles {
		if v, ok := toggles[t]; ok {
			s.toggles[t] = v
		}
	}
}

// SetValue records user input. In create mode, editing the title field
// rewrites the slug, including a slug the user already typed by hand.
func (s *State) SetValue(field, value string) {
	if !s.hasField(field) {
		return
	}
	s.values[field] = value
	if s.mode == ModeCreate && field == s.schema.TitleField {
		s.values["slug"] = GenerateSlug(value)
	}
}

// Value returns the current input of field.
func (s *State) Value(field string) string {
	return s.values[field]
}

// Blur marks field as touched so its error becomes visible.
func (s *State) Blur(field string) {
	if s.hasField(field) {
		s.touched[field] = true
	}
}

// SetToggle sets a boolean switch. Toggles are independent of each other.
func (s *State) SetToggle(name string, on bool) {
	if slices.Contains(s.schema.Toggles, name) {
		s.toggles[name] = on
	}
}

// Toggle reads a boolean switch.
func (s *State) Toggle(name string) bool {
	return s.toggles[name]
}

// Array returns the tag-list field name, or nil when the form has none.
func (s *State) Array(name string) *ArrayField {
	return s.arrays[name]
}

// Errors returns the messages of touched fields only.
func (s *State) Errors() map[string]string {
	out := map[string]string{}
	for _, fe := range s.validate() {
		if s.touched[fe.Field] {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Submit touches every field and validates the whole form. On failure all
// errors become visible and the view is asked to scroll to the top. On
// success the form is marked in flight until Complete is called.
func (s *State) Submit() error {
	if s.submitting {
		return ErrSubmitInFlight
	}
	for _, f := range s.schema.Fields {
		s.touched[f] = true
	}
	s.serverError = ""
	if errs := s.validate(); len(errs) > 0 {
		s.scrollToTop = true
		return &ValidationError{Fields: errs}
	}
	s.submitting = true
	return nil
}

// Submitting reports whether a submission is in flight.
func (s *State) Submitting() bool { return s.submitting }

// TakeScrollToTop returns and clears the scroll request.
func (s *State) TakeScrollToTop() bool {
	v := s.scrollToTop
	s.scrollToTop = false
	return v
}

// Complete ends the in-flight submission. A server error is kept for display
// and every field keeps its value.
func (s *State) Complete(serverErr error) {
	s.submitting = false
	if serverErr != nil {
		s.serverError = serverErr.Error()
		s.scrollToTop = true
	}
}

// ServerError is the last message returned by the server.
func (s *State) ServerError() string { return s.serverError }

// Payload serialises every field regardless of which section is on screen.
// Blank optional fields are sent as null; array fields are always arrays.
func (s *State) Payload() ([]byte, error) {
	body := make(map[string]interface{}, len(s.schema.Fields)+len(s.schema.Arrays)+len(s.schema.Toggles))
	for _, f := range s.schema.Fields {
		v := strings.TrimSpace(s.values[f])
		if v == "" && !s.isRequired(f) {
			body[f] = nil
			continue
		}
		body[f] = v
	}
	for _, name := range s.schema.Arrays {
		body[name] = s.arrays[name].Items()
	}
	for _, t := range s.schema.Toggles {
		body[t] = s.toggles[t]
	}
	return json.Marshal(body)
}

func (s *State) validate() []FieldError {
	var errs []FieldError
	for _, f := range s.schema.Fields {
		v := strings.TrimSpace(s.values[f])
		switch {
		case s.isRequired(f) && v == "":
			errs = append(errs, FieldError{Field: f, Message: fieldMessage(f, "required", "")})
		case f == "slug" && v != "" && !ValidSlug(v):
			errs = append(errs, FieldError{Field: f, Message: fieldMessage(f, "slug", "")})
		case v != "" && s.isDate(f):
			if _, err := daterange.ParseDate(v); err != nil {
				errs = append(errs, FieldError{Field: f, Message: fieldMessage(f, "date", "")})
			}
		}
	}
	return errs
}

func (s *State) hasField(field string) bool { return slices.Contains(s.schema.Fields, field) }
func (s *State) isRequired(field string) bool { return slices.Contains(s.schema.Required, field) }
func (s *State) isDate(field string) bool { return slices.Contains(s.schema.Dates, field) }
