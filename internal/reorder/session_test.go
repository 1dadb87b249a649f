package reorder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowStore mimics the programs table: one display_order write per id.
type rowStore struct {
	order  map[string]int
	writes []string
	failAt int
	seen   []string
	probe  func()
}

func newRowStore(ids ...string) *rowStore {
	rs := &rowStore{order: map[string]int{}}
	for i, id := range ids {
		rs.order[id] = i
	}
	return rs
}

func (r *rowStore) Persist(ctx context.Context, ids []string) error {
	if r.probe != nil {
		r.probe()
	}
	r.seen = append([]string(nil), ids...)
	for i, id := range ids {
		if r.failAt > 0 && len(r.writes)+1 == r.failAt {
			return errors.New("write failed")
		}
		r.writes = append(r.writes, id)
		r.order[id] = i
	}
	return nil
}

func TestMoveIsSplice(t *testing.T) {
	assert.Equal(t, []string{"B", "C", "A"}, Move([]string{"A", "B", "C"}, 0, 2))
	assert.Equal(t, []string{"C", "A", "B"}, Move([]string{"A", "B", "C"}, 2, 0))
	assert.Equal(t, []string{"A", "C", "B", "D"}, Move([]string{"A", "B", "C", "D"}, 1, 2))
	assert.Equal(t, []string{"A", "B"}, Move([]string{"A", "B"}, 0, 5))
}

func TestDropPersistsNewOrder(t *testing.T) {
	store := newRowStore("A", "B", "C")
	s := NewSession([]string{"A", "B", "C"}, store)

	require.NoError(t, s.Start(0))
	assert.Equal(t, Dragging, s.Phase())
	require.NoError(t, s.Hover(2))
	assert.Equal(t, Hovering, s.Phase())

	out, err := s.Drop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Dropped, out.Phase)
	assert.True(t, out.Persisted)
	assert.Equal(t, []string{"B", "C", "A"}, out.Order)
	assert.Equal(t, []string{"B", "C", "A"}, store.writes)
	assert.Equal(t, map[string]int{"B": 0, "C": 1, "A": 2}, store.order)
}

func TestDropAppliesOrderBeforePersisting(t *testing.T) {
	store := newRowStore("A", "B", "C")
	s := NewSession([]string{"A", "B", "C"}, store)
	var during []string
	store.probe = func() { during = s.Order() }

	require.NoError(t, s.Start(2))
	require.NoError(t, s.Hover(0))
	_, err := s.Drop(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B"}, during)
}

func TestDropRollsBackToSnapshotOnFailure(t *testing.T) {
	store := newRowStore("A", "B", "C")
	store.failAt = 2
	s := NewSession([]string{"A", "B", "C"}, store)

	require.NoError(t, s.Start(0))
	require.NoError(t, s.Hover(2))
	out, err := s.Drop(context.Background())

	require.Error(t, err)
	assert.True(t, out.RolledBack)
	assert.False(t, out.Persisted)
	assert.Equal(t, []string{"A", "B", "C"}, out.Order)
	assert.Equal(t, []string{"A", "B", "C"}, s.Order())
	assert.Equal(t, []string{"B"}, store.writes)
}

func TestIdentityDropWritesNothing(t *testing.T) {
	store := newRowStore("A", "B", "C")
	s := NewSession([]string{"A", "B", "C"}, store)

	require.NoError(t, s.Start(1))
	require.NoError(t, s.Hover(1))
	out, err := s.Drop(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Cancelled, out.Phase)
	assert.Nil(t, store.seen)
	assert.Empty(t, store.writes)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2}, store.order)
}

func TestDropOutsideListCancels(t *testing.T) {
	store := newRowStore("A", "B", "C")
	s := NewSession([]string{"A", "B", "C"}, store)

	require.NoError(t, s.Start(0))
	require.NoError(t, s.Hover(2))
	s.Leave()
	out, err := s.Drop(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Cancelled, out.Phase)
	assert.Empty(t, store.writes)
	assert.Equal(t, []string{"A", "B", "C"}, s.Order())
}

func TestCancelBeforeDrop(t *testing.T) {
	s := NewSession([]string{"A", "B"}, newRowStore("A", "B"))
	require.NoError(t, s.Start(0))
	s.Cancel()
	assert.Equal(t, Cancelled, s.Phase())

	_, err := s.Drop(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.Start(1))
	assert.Equal(t, Dragging, s.Phase())
}

func TestInvalidTransitions(t *testing.T) {
	s := NewSession([]string{"A", "B"}, newRowStore("A", "B"))

	assert.ErrorIs(t, s.Hover(0), ErrInvalidTransition)
	assert.ErrorIs(t, s.Start(5), ErrIndexOutOfRange)
	require.NoError(t, s.Start(0))
	assert.ErrorIs(t, s.Start(1), ErrInvalidTransition)
	assert.ErrorIs(t, s.Hover(-1), ErrIndexOutOfRange)
}

func TestPersistIgnoresCallerCancellation(t *testing.T) {
	var sawCancelled bool
	s := NewSession([]string{"A", "B"}, PersisterFunc(func(ctx context.Context, ids []string) error {
		sawCancelled = ctx.Err() != nil
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Start(0))
	require.NoError(t, s.Hover(1))
	_, err := s.Drop(ctx)
	require.NoError(t, err)
	assert.False(t, sawCancelled)
}

func TestConcurrentSessionsAreLastWriteWins(t *testing.T) {
	store := newRowStore("A", "B", "C")
	first := NewSession([]string{"A", "B", "C"}, store)
	second := NewSession([]string{"A", "B", "C"}, store)

	require.NoError(t, first.Start(0))
	require.NoError(t, first.Hover(2))
	require.NoError(t, second.Start(2))
	require.NoError(t, second.Hover(0))

	_, err := first.Drop(context.Background())
	require.NoError(t, err)
	_, err = second.Drop(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"C": 0, "A": 1, "B": 2}, store.order)
	assert.Equal(t, []string{"B", "C", "A"}, first.Order())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "hovering", Hovering.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
