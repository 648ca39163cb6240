package alert

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue() (*Queue, *Scheduler, *clockwork.FakeClock) {
	fc := clockwork.NewFakeClock()
	s := NewScheduler(fc)
	return NewQueue(s), s, fc
}

func ids(alerts []Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Msg)
	}
	return out
}

func TestPush_ExpiresAfterDefaultDuration(t *testing.T) {
	q, s, fc := newTestQueue()

	id := q.Push("Profile Updated", Success)
	require.Len(t, q.List(), 1)
	assert.Equal(t, id, q.List()[0].ID)
	assert.Equal(t, Success, q.List()[0].Type)

	fc.Advance(DefaultDuration - time.Millisecond)
	s.RunPending()
	assert.Equal(t, 1, q.Len())

	fc.Advance(time.Millisecond)
	assert.Equal(t, 1, s.RunPending())
	assert.Equal(t, 0, q.Len())
}

func TestExpire_ThenTimerFiresIsSafe(t *testing.T) {
	q, s, fc := newTestQueue()

	id := q.Push("x", Success)
	assert.True(t, q.Expire(id))
	assert.Empty(t, q.List())

	fc.Advance(DefaultDuration)
	assert.NotPanics(t, func() { s.RunPending() })
	assert.Empty(t, q.List())
	assert.False(t, q.Expire(id))
}

func TestPush_KeepsPushOrderAndExpiresByDeadline(t *testing.T) {
	q, s, fc := newTestQueue()
	var changes [][]string
	q.OnChange = func(a []Alert) { changes = append(changes, ids(a)) }

	q.Push("a", Danger, 3*time.Second)
	q.Push("b", Danger, time.Second)
	q.Push("c", Success, 2*time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, ids(q.List()))

	fc.Advance(time.Second)
	s.RunPending()
	assert.Equal(t, []string{"a", "c"}, ids(q.List()))

	fc.Advance(2 * time.Second)
	assert.Equal(t, 2, s.RunPending())
	assert.Empty(t, q.List())

	assert.Equal(t, [][]string{
		{"a"}, {"a", "b"}, {"a", "b", "c"},
		{"a", "c"}, {"a"}, {},
	}, changes)
}

func TestExpire_UnknownIDIsNoop(t *testing.T) {
	q, _, _ := newTestQueue()
	q.Push("keep", Success)
	assert.False(t, q.Expire("nope"))
	assert.Equal(t, 1, q.Len())
}

func TestScheduler_SameDeadlineRunsInSchedulingOrder(t *testing.T) {
	fc := clockwork.NewFakeClock()
	s := NewScheduler(fc)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		s.After(time.Second, func() { got = append(got, i) })
	}
	s.Post(func() { got = append(got, -1) })

	s.RunPending()
	assert.Equal(t, []int{-1}, got)

	fc.Advance(time.Second)
	s.RunPending()
	assert.Equal(t, []int{-1, 0, 1, 2, 3, 4}, got)
}

func TestTask_CancelAndFireAreExclusive(t *testing.T) {
	fc := clockwork.NewFakeClock()
	s := NewScheduler(fc)
	runs := 0

	cancelled := s.After(time.Second, func() { runs++ })
	kept := s.After(time.Second, func() { runs++ })
	assert.True(t, cancelled.Cancel())
	assert.False(t, cancelled.Cancel())

	fc.Advance(time.Second)
	assert.Equal(t, 1, s.RunPending())
	assert.Equal(t, 1, runs)
	assert.True(t, kept.Done())
	assert.False(t, kept.Cancel())
	assert.False(t, cancelled.Done())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_RunDrivesExpiry(t *testing.T) {
	fc := clockwork.NewFakeClock()
	s := NewScheduler(fc)
	q := NewQueue(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	q.Push("hello", Success, time.Second)
	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(time.Second)

	assert.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
