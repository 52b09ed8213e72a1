// Package engine converts a noisy, append-only stream of activity events
// into a conflict-free daily timeline and its derived analytics. Every
// entry point is a pure function of (events, config): aggregating the same
// event set twice yields identical output.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/ayoisaiah/daybook/internal/models"
	"github.com/ayoisaiah/daybook/internal/timeutil"
)

// DefaultMeetingCategory is assigned to calendar intervals whose events do
// not carry an explicit category.
const DefaultMeetingCategory = "Meetings"

// replayResult carries everything reconstructed from one day's raw events.
type replayResult struct {
	focus    []models.FocusInterval
	external []models.CategorizedInterval
	skipped  int
	warnings []string
}

func validEvent(ev models.RawEvent) bool {
	if ev.Timestamp.IsZero() {
		return false
	}

	switch ev.Kind {
	case models.KindFocusChange,
		models.KindIdentitySwitch,
		models.KindBrowserVisit,
		models.KindMeetingStart,
		models.KindMeetingEnd,
		models.KindIdleStart,
		models.KindIdleEnd,
		models.KindManualEntry:
		return true
	default:
		return false
	}
}

// replay feeds the day's events through a fresh segmenter and pairs up the
// externally sourced intervals. Ingestion order is never assumed to be
// chronological; events are sorted first.
func replay(cfg Config, day time.Time, events []models.RawEvent) replayResult {
	var res replayResult

	sorted := make([]models.RawEvent, 0, len(events))

	for _, ev := range events {
		if !validEvent(ev) {
			res.skipped++
			continue
		}

		sorted = append(sorted, ev)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	seg := NewSegmenter(cfg.IdleThreshold, cfg.Heartbeat)

	var (
		idle     bool
		meetings []models.RawEvent
		lastSeen time.Time
	)

	for _, ev := range sorted {
		lastSeen = ev.Timestamp

		switch ev.Kind {
		case models.KindFocusChange:
			if ev.App == "" {
				res.skipped++
				continue
			}

			tick := Tick{
				Time: ev.Timestamp,
				Identity: models.Identity{
					App:   ev.App,
					Title: ev.Title,
					URL:   ev.URL,
				},
				OK: true,
			}

			if idle {
				tick.Idle = cfg.IdleThreshold
			}

			seg.Observe(tick)

		case models.KindIdleStart:
			idle = true

			idleFor := time.Duration(ev.IdleSeconds) * time.Second
			if idleFor < cfg.IdleThreshold {
				idleFor = cfg.IdleThreshold
			}

			seg.Observe(Tick{
				Time: ev.Timestamp,
				Idle: idleFor,
				OK:   true,
			})

		case models.KindIdleEnd:
			idle = false

		case models.KindMeetingStart:
			meetings = append(meetings, ev)

		case models.KindMeetingEnd:
			iv, rest, ok := closeMeeting(meetings, ev)
			meetings = rest

			if !ok {
				res.skipped++
				continue
			}

			res.external = append(res.external, iv)

		case models.KindBrowserVisit:
			if ev.DurationSeconds <= 0 {
				res.skipped++
				continue
			}

			res.external = append(res.external, models.CategorizedInterval{
				StartTime: ev.Timestamp,
				EndTime: ev.Timestamp.Add(
					time.Duration(ev.DurationSeconds) * time.Second,
				),
				Identity: models.Identity{
					App:   "browser",
					Title: ev.Title,
					URL:   ev.URL,
				},
				Source: models.SourceBrowser,
			})

		case models.KindManualEntry:
			if ev.DurationSeconds <= 0 {
				res.skipped++
				continue
			}

			res.external = append(res.external, models.CategorizedInterval{
				StartTime: ev.Timestamp,
				EndTime: ev.Timestamp.Add(
					time.Duration(ev.DurationSeconds) * time.Second,
				),
				Identity: models.Identity{
					App:   "manual",
					Title: ev.Description,
				},
				Category: ev.Category,
				Source:   models.SourceManual,
			})

		case models.KindIdentitySwitch:
			// consumed directly by the interruption analyzer
		}
	}

	// the event set is closed: attribute nothing past the last observation
	seg.Flush(lastSeen)

	// a meeting that never ended closes at the end of the report day
	for _, ev := range meetings {
		end := timeutil.RoundToEnd(day.In(cfg.Location))

		iv, ok := meetingInterval(ev, end)
		if !ok {
			continue
		}

		res.warnings = append(res.warnings, fmt.Sprintf(
			"meeting %q had no end event; closed at end of day",
			ev.Name,
		))

		res.external = append(res.external, iv)
	}

	res.focus = seg.TakeClosed()

	return res
}

func meetingInterval(
	start models.RawEvent,
	end time.Time,
) (models.CategorizedInterval, bool) {
	if !end.After(start.Timestamp) {
		return models.CategorizedInterval{}, false
	}

	category := start.Category
	if category == "" {
		category = DefaultMeetingCategory
	}

	return models.CategorizedInterval{
		StartTime: start.Timestamp,
		EndTime:   end,
		Identity:  models.Identity{App: start.Name},
		Category:  category,
		Source:    models.SourceCalendar,
	}, true
}

// closeMeeting matches an end event to the most recent start with the same
// name, or the most recent start of any name when the end carries none.
func closeMeeting(
	pending []models.RawEvent,
	end models.RawEvent,
) (models.CategorizedInterval, []models.RawEvent, bool) {
	for i := len(pending) - 1; i >= 0; i-- {
		if end.Name != "" && pending[i].Name != end.Name {
			continue
		}

		iv, ok := meetingInterval(pending[i], end.Timestamp)

		rest := append(pending[:i:i], pending[i+1:]...)

		return iv, rest, ok
	}

	return models.CategorizedInterval{}, pending, false
}

// categorize classifies reconstructed intervals. Externally supplied
// intervals that already carry a category keep it; everything else goes
// through the rule set once and is immutable afterwards.
func categorize(
	cfg Config,
	res replayResult,
) []models.CategorizedInterval {
	out := make([]models.CategorizedInterval, 0, len(res.focus)+len(res.external))

	for _, f := range res.focus {
		category, project := cfg.Rules.Classify(f.Identity)

		out = append(out, models.CategorizedInterval{
			StartTime: f.StartTime,
			EndTime:   f.EndTime,
			Identity:  f.Identity,
			Category:  category,
			Project:   project,
			Source:    models.SourceFocus,
		})
	}

	for _, iv := range res.external {
		if iv.Category == "" {
			iv.Category, iv.Project = cfg.Rules.Classify(iv.Identity)
		}

		out = append(out, iv)
	}

	return out
}

// Daily aggregates one day's events into an immutable DailyAggregate. The
// config must carry a precedence order, an eligible category set, and a
// timezone; everything else falls back to documented defaults. Invariant
// violations found along the way become warnings on the result, never
// errors: historical data that is partially inconsistent still reports.
func Daily(
	cfg Config,
	day time.Time,
	events []models.RawEvent,
) (*models.DailyAggregate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()

	res := replay(cfg, day, events)

	intervals := categorize(cfg, res)

	segments := Merge(cfg, intervals)

	warnings := res.warnings
	warnings = append(warnings, validateMerged(segments)...)

	buckets, bucketWarnings := Bucketize(cfg.Location, segments)
	warnings = append(warnings, bucketWarnings...)

	agg := &models.DailyAggregate{
		Date:          timeutil.RoundToStart(day.In(cfg.Location)),
		ByApp:         make(map[string]float64),
		ByCategory:    make(map[string]float64),
		ByProject:     make(map[string]float64),
		Hourly:        buckets,
		SkippedEvents: res.skipped,
		Warnings:      warnings,
	}

	for _, seg := range segments {
		d := seg.Duration().Seconds()

		agg.TotalSeconds += d
		agg.ByCategory[seg.Category] += d

		if seg.Identity.App != "" {
			agg.ByApp[seg.Identity.App] += d
		}

		if seg.Project != "" {
			agg.ByProject[seg.Project] += d
		}
	}

	agg.DeepWork = DetectDeepWork(cfg, segments)
	agg.Interruptions = AnalyzeInterruptions(cfg, events)
	agg.Score = Score(
		cfg,
		agg.DeepWork,
		agg.TotalSeconds/60,
		agg.Interruptions.Total,
	)

	return agg, nil
}
