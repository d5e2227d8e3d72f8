package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_LatestPushWins(t *testing.T) {
	s := New[string](10 * time.Millisecond)

	require.NotNil(t, s.Push("first"))
	stale := FiredMsg{ID: s.ID(), Tag: 1}
	require.NotNil(t, s.Push("second"))
	latest := FiredMsg{ID: s.ID(), Tag: 2}

	_, ok := s.Fire(stale)
	assert.False(t, ok, "stale tag must not fire")
	assert.True(t, s.Pending())

	got, ok := s.Fire(latest)
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.False(t, s.Pending())

	_, ok = s.Fire(latest)
	assert.False(t, ok, "a value fires once")
}

func TestSignal_CancelInvalidatesPending(t *testing.T) {
	s := New[int](time.Millisecond)
	s.Push(7)
	msg := FiredMsg{ID: s.ID(), Tag: 1}

	s.Cancel()

	_, ok := s.Fire(msg)
	assert.False(t, ok)
	assert.False(t, s.Pending())
}

func TestSignal_IgnoresOtherSignals(t *testing.T) {
	a := New[int](time.Millisecond)
	b := New[int](time.Millisecond)
	a.Push(1)
	b.Push(2)

	msg := FiredMsg{ID: b.ID(), Tag: 1}
	assert.False(t, a.Owns(msg))
	assert.True(t, b.Owns(msg))

	_, ok := a.Fire(msg)
	assert.False(t, ok)

	got, ok := b.Fire(msg)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestSignal_CommandEmitsTaggedMessage(t *testing.T) {
	s := New[struct{}](time.Millisecond)
	cmd := s.Push(struct{}{})

	msg, ok := cmd().(FiredMsg)
	require.True(t, ok)
	assert.Equal(t, FiredMsg{ID: s.ID(), Tag: 1}, msg)

	_, fired := s.Fire(msg)
	assert.True(t, fired)
}

func TestNew_NegativeDelayClamped(t *testing.T) {
	assert.Equal(t, time.Duration(0), New[int](-time.Second).Delay())
}
