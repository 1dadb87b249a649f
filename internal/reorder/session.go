// Package reorder implements drag-and-drop reordering of an id list with
// optimistic display and rollback when persisting fails.
package reorder

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Phase is the state of a drag gesture.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Hovering
	Dropped
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Hovering:
		return "hovering"
	case Dropped:
		return "dropped"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrInvalidTransition reports an event that the current phase does not accept.
	ErrInvalidTransition = errors.New("invalid reorder transition")
	// ErrIndexOutOfRange reports a source or target outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Persister makes a full order durable. Implementations write one row per id
// in ascending index order and stop at the first failure.
type Persister interface {
	Persist(ctx context.Context, orderedIDs []string) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, orderedIDs []string) error

// Persist calls f.
func (f PersisterFunc) Persist(ctx context.Context, orderedIDs []string) error {
	return f(ctx, orderedIDs)
}

// Outcome describes how a drop ended.
type Outcome struct {
	Phase      Phase
	Order      []string
	Persisted  bool
	RolledBack bool
}

// Session is one admin's reorder state over a list of ids. It is scoped to a
// single page load or request and is not safe for concurrent use.
type Session struct {
	persister Persister

	items    []string
	snapshot []string
	phase    Phase
	source   int
	target   int
}

// NewSession starts an idle session over ids.
func NewSession(ids []string, persister Persister) *Session {
	return &Session{
		persister: persister,
		items:     slices.Clone(ids),
		phase:     Idle,
		source:    -1,
		target:    -1,
	}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Order returns the visible order.
func (s *Session) Order() []string { return slices.Clone(s.items) }

// Start picks up the item at source and snapshots the current order.
func (s *Session) Start(source int) error {
	switch s.phase {
	case Idle, Dropped, Cancelled:
	default:
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, s.phase)
	}
	if source < 0 || source >= len(s.items) {
		return fmt.Errorf("%w: source %d", ErrIndexOutOfRange, source)
	}
	s.snapshot = slices.Clone(s.items)
	s.source = source
	s.target = -1
	s.phase = Dragging
	return nil
}

// Hover moves the dragged item over target.
func (s *Session) Hover(target int) error {
	if s.phase != Dragging && s.phase != Hovering {
		return fmt.Errorf("%w: hover while %s", ErrInvalidTransition, s.phase)
	}
	if target < 0 || target >= len(s.items) {
		return fmt.Errorf("%w: target %d", ErrIndexOutOfRange, target)
	}
	s.target = target
	s.phase = Hovering
	return nil
}

// Leave moves the dragged item off the list; dropping now cancels.
func (s *Session) Leave() {
	if s.phase == Hovering {
		s.target = -1
		s.phase = Dragging
	}
}

// Cancel abandons the drag without touching the order.
func (s *Session) Cancel() {
	if s.phase == Dragging || s.phase == Hovering {
		s.phase = Cancelled
		s.target = -1
	}
}

// Drop releases the dragged item. Without a target, or onto its own slot,
// the gesture is cancelled and nothing is written. Otherwise the new order is
// shown at once and then persisted; if persisting fails the visible order
// returns to the snapshot taken at Start.
//
// Persisting runs on a context detached from ctx's cancellation so a write
// sequence, once begun, runs to completion or failure.
func (s *Session) Drop(ctx context.Context) (Outcome, error) {
	if s.phase != Dragging && s.phase != Hovering {
		return Outcome{Phase: s.phase, Order: s.Order()}, fmt.Errorf("%w: drop while %s", ErrInvalidTransition, s.phase)
	}
	if s.target < 0 || s.target == s.source {
		s.phase = Cancelled
		return Outcome{Phase: Cancelled, Order: s.Order()}, nil
	}

	s.items = Move(s.items, s.source, s.target)
	s.phase = Dropped

	if err := s.persister.Persist(context.WithoutCancel(ctx), s.Order()); err != nil {
		s.items = slices.Clone(s.snapshot)
		return Outcome{Phase: Dropped, Order: s.Order(), RolledBack: true}, fmt.Errorf("persist order: %w", err)
	}
	return Outcome{Phase: Dropped, Order: s.Order(), Persisted: true}, nil
}

// Move returns a copy of ids with the element at from removed and
// re-inserted at to. It is a splice, not a swap.
func Move(ids []string, from, to int) []string {
	out := slices.Clone(ids)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}
