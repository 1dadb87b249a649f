package service

import (
	"strings"
	"time"

	"github.com/atlas-sports/site-api/internal/models"
)

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// EventDisplayTime renders the time label of an event: "All Day" for all-day
// events, otherwise the start time as h:mm AM/PM, or nothing without one.
func EventDisplayTime(e models.Event) string {
	if e.IsAllDay {
		return "All Day"
	}
	if e.StartTime == nil {
		return ""
	}
	raw := strings.TrimSpace(*e.StartTime)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return ""
}

func decorateEvents(events []models.EventWithProgram) []models.EventWithProgram {
	for i := range events {
		events[i].DisplayTime = EventDisplayTime(events[i].Event)
	}
	return events
}
