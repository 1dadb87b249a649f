package service

import (
	"time"

	"github.com/atlas-sports/site-api/pkg/daterange"
)

// Clock resolves "now" and "today" for public listings in the site timezone.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Location: loc, Now: time.Now}
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Today is the current calendar date in the site timezone.
func (c Clock) Today() time.Time {
	return daterange.Day(c.now())
}
