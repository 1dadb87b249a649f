package form

import (
	"errors"
	"strings"
)

// ErrEmptyItem rejects blank tag-list entries.
var ErrEmptyItem = errors.New("item must not be empty")

// ArrayField is an ordered list of strings edited one item at a time.
type ArrayField struct {
	items []string
}

// Add trims item and appends it.
func (a *ArrayField) Add(item string) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return ErrEmptyItem
	}
	a.items = append(a.items, item)
	return nil
}

// Remove deletes the item at index; out-of-range indexes are ignored.
func (a *ArrayField) Remove(index int) {
	if index < 0 || index >= len(a.items) {
		return
	}
	a.items = append(a.items[:index], a.items[index+1:]...)
}

// Items returns a copy of the list, never nil.
func (a *ArrayField) Items() []string {
	out := make([]string, len(a.items))
	copy(out, a.items)
	return out
}

// Len is the number of items.
func (a *ArrayField) Len() int { return len(a.items) }

// CleanItems trims entries and drops blanks, the server-side counterpart of Add.
func CleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
