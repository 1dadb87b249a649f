// Package query holds the visibility predicates and orderings of public
// listings. Repositories render them as SQL; services re-apply them to rows
// that come back from the cache or the store.
package query

import (
	"cmp"
	"slices"
	"time"

	"github.com/atlas-sports/site-api/internal/models"
	"github.com/atlas-sports/site-api/pkg/daterange"
)

// Default caps for teaser listings.
const (
	DefaultFeaturedLimit = 3
	DefaultLatestLimit   = 3
)

// SQL renderings of the predicates below, bound to $1 (window start or now).
// Column aliases: e (events), a (announcements).
const (
	PublishedEventsSQL         = `e.is_published = TRUE AND (e.start_date >= $1 OR e.end_date >= $1)`
	FeaturedEventsSQL          = PublishedEventsSQL + ` AND e.is_featured = TRUE`
	PublishedAnnouncementsSQL  = `a.is_published = TRUE`
	VisibleAnnouncementsSQL    = PublishedAnnouncementsSQL + ` AND (a.publish_at IS NULL OR a.publish_at <= $1) AND (a.expires_at IS NULL OR a.expires_at > $1)`
	EventsAscendingSQL         = `e.start_date ASC, e.start_time ASC NULLS FIRST, e.id ASC`
	EventsDescendingSQL        = `e.start_date DESC, e.start_time DESC NULLS LAST, e.id ASC`
	AnnouncementsOrderSQL      = `a.is_pinned DESC, a.created_at DESC, a.id ASC`
	AdminAnnouncementsOrderSQL = `a.created_at DESC, a.id ASC`
)

// EventIsCurrent reports whether an event has not entirely passed as of windowStart.
func EventIsCurrent(e models.Event, windowStart time.Time) bool {
	w := daterange.Day(windowStart)
	if !daterange.Day(e.StartDate).Before(w) {
		return true
	}
	return e.EndDate != nil && !daterange.Day(*e.EndDate).Before(w)
}

// EventIsPublic reports whether an event belongs in the public listing.
func EventIsPublic(e models.Event, windowStart time.Time) bool {
	return e.IsPublished && EventIsCurrent(e, windowStart)
}

// EventIsFeatured reports whether an event belongs in the featured strip.
func EventIsFeatured(e models.Event, windowStart time.Time) bool {
	return e.IsFeatured && EventIsPublic(e, windowStart)
}

// AnnouncementIsVisible applies the publish/expiry window at now.
func AnnouncementIsVisible(a models.Announcement, now time.Time) bool {
	if !a.IsPublished {
		return false
	}
	if a.PublishAt != nil && a.PublishAt.After(now) {
		return false
	}
	if a.ExpiresAt != nil && !a.ExpiresAt.After(now) {
		return false
	}
	return true
}

// Filter keeps the items matching keep, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Limit caps items at n; n <= 0 means no cap.
func Limit[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// CompareAnnouncements orders pinned first, then newest first, then by id.
func CompareAnnouncements(a, b models.Announcement) int {
	if a.IsPinned != b.IsPinned {
		if a.IsPinned {
			return -1
		}
		return 1
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortAnnouncements sorts in place with CompareAnnouncements.
func SortAnnouncements(items []models.AnnouncementWithProgram) {
	slices.SortStableFunc(items, func(a, b models.AnnouncementWithProgram) int {
		return CompareAnnouncements(a.Announcement, b.Announcement)
	})
}

// CompareEvents orders by start date, then start time (untimed first), then id.
func CompareEvents(a, b models.Event) int {
	if c := daterange.Day(a.StartDate).Compare(daterange.Day(b.StartDate)); c != 0 {
		return c
	}
	if c := cmp.Compare(deref(a.StartTime), deref(b.StartTime)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortEvents sorts in place, ascending or descending by start.
func SortEvents(items []models.EventWithProgram, ascending bool) {
	slices.SortStableFunc(items, func(a, b models.EventWithProgram) int {
		c := CompareEvents(a.Event, b.Event)
		if !ascending {
			if d := daterange.Day(a.StartDate).Compare(daterange.Day(b.StartDate)); d != 0 {
				return -d
			}
			if d := cmp.Compare(deref(a.StartTime), deref(b.StartTime)); d != 0 {
				return -d
			}
		}
		return c
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
