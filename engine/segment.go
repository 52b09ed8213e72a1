package engine

import (
	"time"

	"github.com/ayoisaiah/daybook/internal/models"
)

// Tick is one periodic observation fed to the segmenter. OK is false when
// the underlying sample failed or was malformed; such ticks never cause a
// transition.
type Tick struct {
	Time        time.Time
	Identity    models.Identity
	PausedSince time.Time
	Idle        time.Duration
	OK          bool
	Paused      bool
}

// Segmenter turns a stream of point-in-time samples into closed, immutable
// focus intervals. At most one interval is open at any time; it is the only
// mutable state in the pipeline and is owned exclusively by the segmenter.
type Segmenter struct {
	open          *models.FocusInterval
	lastCommit    time.Time
	closed        []models.FocusInterval
	idleThreshold time.Duration
	heartbeat     time.Duration
}

// NewSegmenter returns a segmenter with the given idle threshold and
// heartbeat commit interval. A zero heartbeat disables periodic commits; a
// zero idle threshold disables idle detection.
func NewSegmenter(idleThreshold, heartbeat time.Duration) *Segmenter {
	return &Segmenter{
		idleThreshold: idleThreshold,
		heartbeat:     heartbeat,
	}
}

// closeAt freezes the open interval at the given instant. Intervals that
// would not be strictly positive in duration are dropped.
func (s *Segmenter) closeAt(end time.Time) {
	if s.open == nil {
		return
	}

	if end.Before(s.open.StartTime) {
		end = s.open.StartTime
	}

	s.open.EndTime = end

	if s.open.EndTime.After(s.open.StartTime) {
		s.closed = append(s.closed, *s.open)
	}

	s.open = nil
}

func (s *Segmenter) openAt(id models.Identity, start time.Time) {
	s.open = &models.FocusInterval{
		StartTime: start,
		Identity:  id,
	}
	s.lastCommit = start
}

// Observe runs one tick through the state machine. Transitions are
// evaluated in a fixed order: pause, idle, open, heartbeat, identity change.
func (s *Segmenter) Observe(t Tick) {
	if !t.OK {
		return
	}

	if t.Paused {
		// closeAt clamps to the interval start, so a pause window that
		// began before the interval drops it instead of attributing time
		s.closeAt(t.PausedSince)
		return
	}

	if s.idleThreshold > 0 && t.Idle >= s.idleThreshold {
		// close at the instant activity ceased, never before the
		// interval began
		s.closeAt(t.Time.Add(-t.Idle))
		return
	}

	if s.open == nil {
		s.openAt(t.Identity, t.Time)
		return
	}

	if s.open.Identity == t.Identity {
		if s.heartbeat > 0 && t.Time.Sub(s.lastCommit) >= s.heartbeat {
			// commit the current segment and immediately reopen with
			// the same identity and zero gap. Consumers treat the two
			// adjacent segments as one logical session.
			id := s.open.Identity

			s.closeAt(t.Time)
			s.openAt(id, t.Time)
		}

		return
	}

	id := t.Identity

	s.closeAt(t.Time)
	s.openAt(id, t.Time)
}

// SplitAt force-closes the open interval at an arbitrary instant and
// reopens it with the same identity, preserving logical continuity across
// day boundaries. It is an idempotent no-op when nothing is open.
func (s *Segmenter) SplitAt(at time.Time) {
	if s.open == nil {
		return
	}

	id := s.open.Identity

	s.closeAt(at)
	s.openAt(id, at)
}

// Flush force-closes the open interval at the given instant. It is an
// idempotent no-op when nothing is open.
func (s *Segmenter) Flush(now time.Time) {
	s.closeAt(now)
}

// Open returns a copy of the currently open interval, if any.
func (s *Segmenter) Open() (models.FocusInterval, bool) {
	if s.open == nil {
		return models.FocusInterval{}, false
	}

	return *s.open, true
}

// TakeClosed drains and returns every interval closed since the last call.
func (s *Segmenter) TakeClosed() []models.FocusInterval {
	closed := s.closed
	s.closed = nil

	return closed
}
