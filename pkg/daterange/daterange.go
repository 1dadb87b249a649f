// Package daterange implements calendar-day arithmetic for dated items such as events.
//
// All comparisons happen on calendar dates: the time of day and the location
// of the inputs never move a value across a day boundary.
package daterange

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MaxSpanDays caps how many days a single span may cover (roughly two years).
const MaxSpanDays = 731

var (
	// ErrInvalidDate reports a malformed date string.
	ErrInvalidDate = errors.New("invalid date")
	// ErrRangeTooLarge reports a span longer than MaxSpanDays.
	ErrRangeTooLarge = errors.New("date range too large")
	// ErrInvalidRange reports a span that ends before it starts.
	ErrInvalidRange = errors.New("end date before start date")
)

// Span is an inclusive range of calendar days. A nil End means a single-day span.
type Span struct {
	Start time.Time
	End   *time.Time
}

// Last returns the final calendar day of the span.
func (s Span) Last() time.Time {
	if s.End == nil {
		return s.Start
	}
	return *s.End
}

// ParseDate parses YYYY-MM-DD. A full RFC 3339 timestamp is accepted and truncated to its date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// Day returns midnight UTC of t's calendar date as seen in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders the calendar date of t.
func Format(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// Contains reports whether date falls on a day covered by the span.
// The span start is taken from 00:00:00, its end through 23:59:59.999999999,
// and date is probed at noon of its own calendar day.
func Contains(date time.Time, s Span) bool {
	start := Day(s.Start)
	end := Day(s.Last()).Add(24*time.Hour - time.Nanosecond)
	probe := Day(date).Add(12 * time.Hour)
	return !probe.Before(start) && !probe.After(end)
}

// Length returns the number of days in the span, validating it on the way.
func Length(s Span) (int, error) {
	start := Day(s.Start)
	end := Day(s.Last())
	if end.Before(start) {
		return 0, fmt.Errorf("%w: %s < %s", ErrInvalidRange, Format(end), Format(start))
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > MaxSpanDays {
		return 0, fmt.Errorf("%w: %d days", ErrRangeTooLarge, days)
	}
	return days, nil
}

// Days returns every calendar day of the span in ascending order.
// The sequence is lazy and can be ranged over any number of times.
func Days(s Span) (iter.Seq[time.Time], error) {
	n, err := Length(s)
	if err != nil {
		return nil, err
	}
	start := Day(s.Start)
	return func(yield func(time.Time) bool) {
		for i := 0; i < n; i++ {
			if !yield(start.AddDate(0, 0, i)) {
				return
			}
		}
	}, nil
}

// Collect materialises Days into a slice.
func Collect(s Span) ([]time.Time, error) {
	seq, err := Days(s)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for d := range seq {
		out = append(out, d)
	}
	return out, nil
}

// Classify splits dates into those strictly before today and those on or after it.
func Classify(dates []time.Time, today time.Time) (past, current []time.Time) {
	cutoff := Day(today)
	for _, d := range dates {
		if Day(d).Before(cutoff) {
			past = append(past, Day(d))
		} else {
			current = append(current, Day(d))
		}
	}
	return past, current
}

// Overlaps reports whether the span shares at least one day with [from, to].
func Overlaps(s Span, from, to time.Time) bool {
	return !Day(s.Last()).Before(Day(from)) && !Day(s.Start).After(Day(to))
}

// MonthBounds returns the first and last calendar day of t's month.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
