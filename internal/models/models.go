// Package models defines the data model shared between the tracker, the
// analytics engine, and the report renderer.
package models

import "time"

// EventKind identifies the type of a raw activity event.
type EventKind string

const (
	KindFocusChange    EventKind = "focus-change"
	KindIdentitySwitch EventKind = "identity-switch"
	KindBrowserVisit   EventKind = "browser-visit"
	KindMeetingStart   EventKind = "meeting-start"
	KindMeetingEnd     EventKind = "meeting-end"
	KindIdleStart      EventKind = "idle-start"
	KindIdleEnd        EventKind = "idle-end"
	KindManualEntry    EventKind = "manual-entry"
)

// RawEvent is an immutable, timestamped record of an observed activity fact.
// Events are append-only; fields beyond Kind and Timestamp are kind-specific.
type RawEvent struct {
	Timestamp       time.Time `json:"timestamp"`
	Kind            EventKind `json:"kind"`
	App             string    `json:"app,omitempty"`
	Title           string    `json:"title,omitempty"`
	URL             string    `json:"url,omitempty"`
	FromApp         string    `json:"from_app,omitempty"`
	ToApp           string    `json:"to_app,omitempty"`
	Name            string    `json:"name,omitempty"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	IdleSeconds     int       `json:"idle_duration_seconds,omitempty"`
}

// Identity is the (app, title, url) tuple that distinguishes one focus
// target from another.
type Identity struct {
	App   string `json:"app"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// FocusInterval is a time range of continuous identical identity. The end
// time is mutable while the interval is open and frozen once it is closed.
type FocusInterval struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Identity  Identity  `json:"identity"`
}

// Duration reports the length of the interval.
func (f FocusInterval) Duration() time.Duration {
	return f.EndTime.Sub(f.StartTime)
}

// IntervalSource identifies which collaborator produced an interval.
type IntervalSource string

const (
	SourceFocus    IntervalSource = "focus"
	SourceCalendar IntervalSource = "calendar"
	SourceBrowser  IntervalSource = "browser"
	SourceManual   IntervalSource = "manual"
)

// CategorizedInterval is a focus interval (or an externally supplied
// meeting/browser interval) tagged with a category and project. It is
// immutable once classified.
type CategorizedInterval struct {
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Identity  Identity       `json:"identity"`
	Category  string         `json:"category"`
	Project   string         `json:"project,omitempty"`
	Source    IntervalSource `json:"source"`
}

// Duration reports the length of the interval.
func (c CategorizedInterval) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// MergedSegment is a non-overlapping time range with a single resolved
// category after cross-source conflict resolution. Segments are derived
// fresh on every aggregation run and never persisted.
type MergedSegment struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Identity  Identity  `json:"identity"`
	Category  string    `json:"category"`
	Project   string    `json:"project,omitempty"`
}

// Duration reports the length of the segment.
func (m MergedSegment) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// HourlyBucket accumulates seconds of tracked time for one wall clock hour.
type HourlyBucket struct {
	Hour              int     `json:"hour"`
	Seconds           float64 `json:"seconds"`
	PercentOfPeakHour float64 `json:"percent_of_peak_hour"`
}

// DeepWorkBlock is a gap-tolerant grouping of deep-work-eligible segments
// that met the minimum duration threshold.
type DeepWorkBlock struct {
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Minutes          float64   `json:"minutes"`
	DominantCategory string    `json:"dominant_category"`
	DominantApp      string    `json:"dominant_app"`
	Interruptions    int       `json:"interruptions"`
	QualityScore     float64   `json:"quality_score"`
}

// InterruptionStats summarises identity-switch activity for a day.
type InterruptionStats struct {
	PerHour        map[int]int `json:"per_hour"`
	Total          int         `json:"total"`
	PeakHour       int         `json:"peak_hour"`
	AvgPerHour     float64     `json:"avg_per_hour"`
	EstMinutesLost float64     `json:"est_minutes_lost"`
}

// ProductivityScore is the composite daily score with its rating band.
type ProductivityScore struct {
	Rating                string  `json:"rating"`
	Overall               float64 `json:"overall"`
	DeepWorkComponent     float64 `json:"deep_work_component"`
	InterruptionComponent float64 `json:"interruption_component"`
	QualityComponent      float64 `json:"quality_component"`
}

// DailyAggregate is the immutable result of a full aggregation run for a
// single day. Detected invariant violations are reported as warnings rather
// than failures so that partially inconsistent historical data still
// produces a best-effort report.
type DailyAggregate struct {
	Date          time.Time          `json:"date"`
	ByApp         map[string]float64 `json:"by_app"`
	ByCategory    map[string]float64 `json:"by_category"`
	ByProject     map[string]float64 `json:"by_project"`
	TotalSeconds  float64            `json:"total_seconds"`
	Hourly        []HourlyBucket     `json:"hourly"`
	DeepWork      []DeepWorkBlock    `json:"deep_work"`
	Interruptions InterruptionStats  `json:"interruptions"`
	Score         ProductivityScore  `json:"score"`
	SkippedEvents int                `json:"skipped_events,omitempty"`
	Warnings      []string           `json:"warnings,omitempty"`
}
