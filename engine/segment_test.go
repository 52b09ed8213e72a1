package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/daybook/internal/models"
)

var (
	codeID  = models.Identity{App: "Code", Title: "main.go"}
	slackID = models.Identity{App: "Slack", Title: "#general"}
)

func tick(t time.Time, id models.Identity) Tick {
	return Tick{Time: t, Identity: id, OK: true}
}

func TestSegmenterOpensOnFirstSample(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	s.Observe(tick(at(9, 0), codeID))

	open, ok := s.Open()
	assert.True(t, ok)
	assert.Equal(t, codeID, open.Identity)
	assert.Equal(t, at(9, 0), open.StartTime)
	assert.Empty(t, s.TakeClosed())
}

func TestSegmenterIdentityChange(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	s.Observe(tick(at(9, 0), codeID))
	s.Observe(tick(at(9, 30), slackID))

	closed := s.TakeClosed()
	assert.Len(t, closed, 1)
	assert.Equal(t, codeID, closed[0].Identity)
	assert.Equal(t, at(9, 30), closed[0].EndTime)

	open, ok := s.Open()
	assert.True(t, ok)
	assert.Equal(t, slackID, open.Identity)
}

func TestSegmenterFailedSampleDoesNotTransition(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	s.Observe(tick(at(9, 0), codeID))
	s.Observe(Tick{Time: at(9, 5)}) // OK is false

	open, ok := s.Open()
	assert.True(t, ok)
	assert.Equal(t, codeID, open.Identity)
	assert.Empty(t, s.TakeClosed())
}

func TestSegmenterIdleClosesAtActivityEnd(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	s.Observe(tick(at(9, 0), codeID))

	idleTick := tick(at(9, 30), codeID)
	idleTick.Idle = 10 * time.Minute

	s.Observe(idleTick)

	closed := s.TakeClosed()
	assert.Len(t, closed, 1)
	assert.Equal(t, at(9, 20), closed[0].EndTime)

	_, ok := s.Open()
	assert.False(t, ok)

	// never open while idle
	s.Observe(idleTick)
	_, ok = s.Open()
	assert.False(t, ok)
}

func TestSegmenterIdleClampsToStart(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	s.Observe(tick(at(9, 0), codeID))

	idleTick := tick(at(9, 6), codeID)
	idleTick.Idle = 10 * time.Minute

	s.Observe(idleTick)

	// the would-be end precedes the start, so the interval is dropped
	assert.Empty(t, s.TakeClosed())
}

func TestSegmenterPause(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	s.Observe(tick(at(9, 0), codeID))

	paused := tick(at(9, 30), codeID)
	paused.Paused = true
	paused.PausedSince = at(9, 25)

	s.Observe(paused)

	closed := s.TakeClosed()
	assert.Len(t, closed, 1)
	assert.Equal(t, at(9, 25), closed[0].EndTime)

	// no interval opens while paused
	s.Observe(paused)
	_, ok := s.Open()
	assert.False(t, ok)
}

func TestSegmenterHeartbeat(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 10*time.Minute)

	s.Observe(tick(at(9, 0), codeID))
	s.Observe(tick(at(9, 5), codeID))

	// not yet due
	assert.Empty(t, s.TakeClosed())

	s.Observe(tick(at(9, 10), codeID))

	closed := s.TakeClosed()
	assert.Len(t, closed, 1)
	assert.Equal(t, at(9, 0), closed[0].StartTime)
	assert.Equal(t, at(9, 10), closed[0].EndTime)

	// reopened with the same identity and zero gap
	open, ok := s.Open()
	assert.True(t, ok)
	assert.Equal(t, codeID, open.Identity)
	assert.Equal(t, at(9, 10), open.StartTime)
}

func TestSegmenterSplitAt(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	s.Observe(tick(at(23, 50), codeID))

	midnight := at(23, 59).Add(time.Minute)

	s.SplitAt(midnight)

	closed := s.TakeClosed()
	assert.Len(t, closed, 1)
	assert.Equal(t, midnight, closed[0].EndTime)

	open, ok := s.Open()
	assert.True(t, ok)
	assert.Equal(t, midnight, open.StartTime)
	assert.Equal(t, codeID, open.Identity)

	// idempotent: a second split at the same instant produces nothing new
	s.SplitAt(midnight)
	assert.Empty(t, s.TakeClosed())
}

func TestSegmenterFlush(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	// no-op with nothing open
	s.Flush(at(9, 0))
	assert.Empty(t, s.TakeClosed())

	s.Observe(tick(at(9, 0), codeID))
	s.Flush(at(9, 45))

	closed := s.TakeClosed()
	assert.Len(t, closed, 1)
	assert.Equal(t, at(9, 45), closed[0].EndTime)

	_, ok := s.Open()
	assert.False(t, ok)

	// idempotent
	s.Flush(at(9, 45))
	assert.Empty(t, s.TakeClosed())
}

func TestSegmenterDropsNonPositiveDurations(t *testing.T) {
	s := NewSegmenter(5*time.Minute, 0)

	s.Observe(tick(at(9, 0), codeID))
	s.Observe(tick(at(9, 0), slackID))

	// the zero-length Code interval is dropped
	assert.Empty(t, s.TakeClosed())

	open, ok := s.Open()
	assert.True(t, ok)
	assert.Equal(t, slackID, open.Identity)
}
