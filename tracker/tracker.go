// Package tracker runs the long-lived sampling daemon. It polls a
// window sampler, feeds the observations through a session segmenter,
// and appends the resulting raw events to the database. At local
// midnight it splits the open session, computes the finished day's
// aggregate, and notifies the user.
package tracker

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/daybook/config"
	"github.com/ayoisaiah/daybook/engine"
	"github.com/ayoisaiah/daybook/internal/applog"
	"github.com/ayoisaiah/daybook/internal/models"
	"github.com/ayoisaiah/daybook/internal/timeutil"
	"github.com/ayoisaiah/daybook/report"
	"github.com/ayoisaiah/daybook/store"
)

const samplerTimeout = 5 * time.Second

// Tracker owns the poll loop and all mutable tracking state. Every
// transition of the segmenter goes through the mutex so the midnight
// rollover and the poll loop never race.
type Tracker struct {
	db      store.DB
	sampler Sampler
	cfg     *config.Config
	engCfg  engine.Config

	mu           sync.Mutex
	seg          *engine.Segmenter
	lastApp      string
	idle         bool
	paused       bool
	pausedSince  time.Time
	sessionCount int

	clock func() time.Time
}

// New builds a tracker from the resolved configuration. When sampler is
// nil, an exec sampler is constructed from tracker.sampler_cmd.
func New(cfg *config.Config, db store.DB, sampler Sampler) (*Tracker, error) {
	engCfg, err := cfg.Engine()
	if err != nil {
		return nil, err
	}

	if sampler == nil {
		sampler, err = NewExecSampler(cfg.Tracker.SamplerCmd, samplerTimeout)
		if err != nil {
			return nil, err
		}
	}

	return &Tracker{
		db:      db,
		sampler: sampler,
		cfg:     cfg,
		engCfg:  engCfg,
		seg: engine.NewSegmenter(
			engCfg.IdleThreshold,
			engCfg.Heartbeat,
		),
		clock: time.Now,
	}, nil
}

// Run polls until the context is cancelled, then flushes the open
// session so no tracked time is lost on shutdown.
func (t *Tracker) Run(ctx context.Context) error {
	poll := time.Duration(t.cfg.Tracker.PollSeconds) * time.Second
	if poll <= 0 {
		poll = 10 * time.Second
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	now := t.clock().In(t.engCfg.Location)
	midnight := time.NewTimer(time.Until(timeutil.NextMidnight(now)))

	defer midnight.Stop()

	applog.L().Info("tracker started",
		"poll_seconds", t.cfg.Tracker.PollSeconds,
		"timezone", t.engCfg.Location.String(),
	)

	for {
		select {
		case <-ctx.Done():
			t.mu.Lock()
			t.seg.Flush(t.clock().In(t.engCfg.Location))
			t.drainClosedLocked()
			t.mu.Unlock()

			applog.L().Info("tracker stopped")

			return ctx.Err()
		case <-ticker.C:
			t.tick(ctx, t.clock().In(t.engCfg.Location))
		case <-midnight.C:
			now := t.clock().In(t.engCfg.Location)

			t.rollover(now)
			midnight.Reset(time.Until(timeutil.NextMidnight(now)))
		}
	}
}

// Pause suspends tracking. The open session will be closed at the pause
// instant on the next tick.
func (t *Tracker) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.paused {
		return
	}

	t.paused = true
	t.pausedSince = t.clock().In(t.engCfg.Location)

	applog.L().Info("tracking paused")
}

// Resume re-enables tracking after a pause.
func (t *Tracker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.paused {
		return
	}

	t.paused = false
	t.pausedSince = time.Time{}

	applog.L().Info("tracking resumed")
}

// Current returns the open session, if any.
func (t *Tracker) Current() (models.FocusInterval, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.seg.Open()
}

// tick runs one sample through the segmenter and appends the derived
// events. A failed sample is skipped entirely: it neither opens nor
// closes a session.
func (t *Tracker) tick(ctx context.Context, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.paused {
		t.seg.Observe(engine.Tick{
			Time:        now,
			OK:          true,
			Paused:      true,
			PausedSince: t.pausedSince,
		})
		t.drainClosedLocked()

		return
	}

	sample, err := t.sampler.Sample(ctx)
	if err != nil {
		applog.L().Warn("sample skipped", "error", err.Error())

		t.seg.Observe(engine.Tick{Time: now})

		return
	}

	events := t.eventsForSample(now, sample)

	t.seg.Observe(engine.Tick{
		Time:     now,
		Identity: sample.Identity,
		Idle:     sample.Idle,
		OK:       true,
	})
	t.drainClosedLocked()

	if len(events) > 0 {
		if err := t.db.AppendEvents(events...); err != nil {
			applog.L().Error("persisting events failed", "error", err.Error())
		}
	}
}

// eventsForSample derives the raw events implied by one observation:
// the focus-change record itself, an identity-switch when the focused
// app changed, and idle-start/idle-end on idle transitions.
func (t *Tracker) eventsForSample(
	now time.Time,
	sample Sample,
) []models.RawEvent {
	events := make([]models.RawEvent, 0, 3)

	isIdle := t.engCfg.IdleThreshold > 0 && sample.Idle >= t.engCfg.IdleThreshold

	if isIdle && !t.idle {
		events = append(events, models.RawEvent{
			Timestamp:   now,
			Kind:        models.KindIdleStart,
			IdleSeconds: int(sample.Idle.Seconds()),
		})
	}

	if !isIdle && t.idle {
		events = append(events, models.RawEvent{
			Timestamp: now,
			Kind:      models.KindIdleEnd,
		})
	}

	t.idle = isIdle

	if isIdle {
		return events
	}

	if t.lastApp != "" && t.lastApp != sample.Identity.App {
		events = append(events, models.RawEvent{
			Timestamp: now,
			Kind:      models.KindIdentitySwitch,
			FromApp:   t.lastApp,
			ToApp:     sample.Identity.App,
		})
	}

	t.lastApp = sample.Identity.App

	events = append(events, models.RawEvent{
		Timestamp:   now,
		Kind:        models.KindFocusChange,
		App:         sample.Identity.App,
		Title:       sample.Identity.Title,
		URL:         sample.Identity.URL,
		IdleSeconds: int(sample.Idle.Seconds()),
	})

	return events
}

func (t *Tracker) drainClosedLocked() {
	for _, iv := range t.seg.TakeClosed() {
		t.sessionCount++

		applog.L().Info("session closed",
			"app", iv.Identity.App,
			"start", iv.StartTime.Format(time.RFC3339),
			"duration", iv.Duration().Round(time.Second).String(),
		)
	}
}

// rollover splits the open session at midnight, then aggregates and
// stores the finished day.
func (t *Tracker) rollover(now time.Time) {
	day := timeutil.RoundToStart(now.AddDate(0, 0, -1))

	t.mu.Lock()
	t.seg.SplitAt(timeutil.RoundToStart(now))
	t.drainClosedLocked()
	t.mu.Unlock()

	agg, err := t.aggregate(day)
	if err != nil {
		applog.L().Error("midnight aggregation failed",
			"day", day.Format(time.DateOnly),
			"error", err.Error(),
		)

		return
	}

	t.notify(agg)
	t.runReportHook(day)
}

func (t *Tracker) aggregate(day time.Time) (*models.DailyAggregate, error) {
	events, skipped, err := t.db.GetEvents(
		timeutil.RoundToStart(day),
		timeutil.RoundToEnd(day),
	)
	if err != nil {
		return nil, err
	}

	agg, err := engine.Daily(t.engCfg, day, events)
	if err != nil {
		return nil, err
	}

	agg.SkippedEvents += skipped

	if err := t.db.SaveAggregate(agg); err != nil {
		return nil, err
	}

	applog.L().Info("daily aggregate saved",
		"day", day.Format(time.DateOnly),
		"total_seconds", agg.TotalSeconds,
		"score", agg.Score.Overall,
	)

	return agg, nil
}

func (t *Tracker) notify(agg *models.DailyAggregate) {
	if !t.cfg.Notifications.Enabled {
		return
	}

	err := beeep.Notify(
		"Daybook",
		report.Summary(agg),
		"",
	)
	if err != nil {
		applog.L().Warn("notification failed", "error", err.Error())
	}
}

// runReportHook runs the user-configured report.cmd with the finished
// day as its only argument.
func (t *Tracker) runReportHook(day time.Time) {
	cmdline := t.cfg.Report.Cmd
	if cmdline == "" {
		return
	}

	argv, err := shellquote.Split(cmdline)
	if err != nil || len(argv) == 0 {
		applog.L().Warn("invalid report.cmd", "cmd", cmdline)

		return
	}

	argv = append(argv, day.Format(time.DateOnly))

	if err := exec.Command(argv[0], argv[1:]...).Start(); err != nil {
		applog.L().Warn("report.cmd failed", "error", err.Error())
	}
}
