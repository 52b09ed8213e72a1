package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/daybook/config"
	"github.com/ayoisaiah/daybook/internal/models"
)

type fakeSampler struct {
	queue []Sample
	errs  []error
}

func (f *fakeSampler) Sample(_ context.Context) (Sample, error) {
	if len(f.errs) > 0 && f.errs[0] != nil {
		err := f.errs[0]
		f.errs = f.errs[1:]

		if len(f.queue) > 0 {
			f.queue = f.queue[1:]
		}

		return Sample{}, err
	}

	if len(f.errs) > 0 {
		f.errs = f.errs[1:]
	}

	s := f.queue[0]

	if len(f.queue) > 1 {
		f.queue = f.queue[1:]
	}

	return s, nil
}

type fakeDB struct {
	events     []models.RawEvent
	aggregates map[string]*models.DailyAggregate
}

func newFakeDB() *fakeDB {
	return &fakeDB{aggregates: make(map[string]*models.DailyAggregate)}
}

func (f *fakeDB) AppendEvents(events ...models.RawEvent) error {
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeDB) GetEvents(
	start, end time.Time,
) ([]models.RawEvent, int, error) {
	var out []models.RawEvent

	for _, ev := range f.events {
		if ev.Timestamp.Before(start) || ev.Timestamp.After(end) {
			continue
		}

		out = append(out, ev)
	}

	return out, 0, nil
}

func (f *fakeDB) SaveAggregate(agg *models.DailyAggregate) error {
	f.aggregates[agg.Date.Format(time.DateOnly)] = agg
	return nil
}

func (f *fakeDB) GetAggregate(day time.Time) (*models.DailyAggregate, error) {
	return f.aggregates[day.Format(time.DateOnly)], nil
}

func (f *fakeDB) Close() error { return nil }

func (f *fakeDB) Open() error { return nil }

func testTrackerConfig() *config.Config {
	return &config.Config{
		Precedence: []string{"Meetings", "Coding", "Chat"},
		DeepWork: config.DeepWorkConfig{
			Categories:       []string{"Coding"},
			ThresholdMinutes: 25,
			MaxGapMinutes:    5,
		},
		Rules: config.RulesConfig{
			Apps: []config.RuleConfig{
				{Pattern: `(?i)code`, Label: "Coding"},
				{Pattern: `(?i)slack`, Label: "Chat"},
			},
		},
		Tracker: config.TrackerConfig{
			PollSeconds:          10,
			IdleThresholdSeconds: 300,
			HeartbeatSeconds:     600,
		},
		Report: config.ReportConfig{
			Timezone:        "UTC",
			MergeGapSeconds: 30,
		},
	}
}

func newTestTracker(t *testing.T, db *fakeDB, s Sampler) *Tracker {
	t.Helper()

	tr, err := New(testTrackerConfig(), db, s)
	if err != nil {
		t.Fatal(err)
	}

	return tr
}

func at(h, m int) time.Time {
	return time.Date(2024, time.March, 14, h, m, 0, 0, time.UTC)
}

func codeSample() Sample {
	return Sample{
		Identity: models.Identity{App: "Code", Title: "main.go"},
	}
}

func slackSample() Sample {
	return Sample{
		Identity: models.Identity{App: "Slack", Title: "#general"},
	}
}

func kinds(events []models.RawEvent) []models.EventKind {
	out := make([]models.EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}

	return out
}

func TestTickRecordsFocusChange(t *testing.T) {
	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{queue: []Sample{codeSample()}})

	tr.tick(context.Background(), at(9, 0))

	assert.Equal(
		t,
		[]models.EventKind{models.KindFocusChange},
		kinds(db.events),
	)

	open, ok := tr.Current()
	assert.True(t, ok)
	assert.Equal(t, "Code", open.Identity.App)
}

func TestTickRecordsIdentitySwitch(t *testing.T) {
	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{
		queue: []Sample{codeSample(), slackSample()},
	})

	tr.tick(context.Background(), at(9, 0))
	tr.tick(context.Background(), at(9, 10))

	assert.Equal(t, []models.EventKind{
		models.KindFocusChange,
		models.KindIdentitySwitch,
		models.KindFocusChange,
	}, kinds(db.events))

	sw := db.events[1]
	assert.Equal(t, "Code", sw.FromApp)
	assert.Equal(t, "Slack", sw.ToApp)
}

func TestTickSameAppNoSwitch(t *testing.T) {
	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{
		queue: []Sample{codeSample(), codeSample()},
	})

	tr.tick(context.Background(), at(9, 0))
	tr.tick(context.Background(), at(9, 1))

	assert.Equal(t, []models.EventKind{
		models.KindFocusChange,
		models.KindFocusChange,
	}, kinds(db.events))
}

func TestTickIdleTransitions(t *testing.T) {
	idleSample := codeSample()
	idleSample.Idle = 6 * time.Minute

	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{
		queue: []Sample{codeSample(), idleSample, codeSample()},
	})

	tr.tick(context.Background(), at(9, 0))
	tr.tick(context.Background(), at(9, 10))
	tr.tick(context.Background(), at(9, 20))

	assert.Equal(t, []models.EventKind{
		models.KindFocusChange,
		models.KindIdleStart,
		models.KindIdleEnd,
		models.KindFocusChange,
	}, kinds(db.events))

	assert.Equal(t, 360, db.events[1].IdleSeconds)

	// the idle tick closed the session; the following active tick
	// reopened it
	open, ok := tr.Current()
	assert.True(t, ok)
	assert.Equal(t, at(9, 20), open.StartTime)
}

func TestTickSamplerFailureSkipped(t *testing.T) {
	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{
		queue: []Sample{codeSample(), codeSample()},
		errs:  []error{nil, errSamplerNoApp},
	})

	tr.tick(context.Background(), at(9, 0))
	tr.tick(context.Background(), at(9, 10))

	// no event was recorded for the failed sample and the open session
	// was not disturbed
	assert.Equal(
		t,
		[]models.EventKind{models.KindFocusChange},
		kinds(db.events),
	)

	open, ok := tr.Current()
	assert.True(t, ok)
	assert.Equal(t, at(9, 0), open.StartTime)
}

func TestPauseClosesAtPauseInstant(t *testing.T) {
	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{queue: []Sample{codeSample()}})

	tr.clock = func() time.Time { return at(9, 30) }

	tr.tick(context.Background(), at(9, 0))
	tr.Pause()
	tr.tick(context.Background(), at(9, 40))

	_, ok := tr.Current()
	assert.False(t, ok)

	closed := tr.seg.TakeClosed()
	assert.Empty(t, closed) // already drained by tick

	assert.Equal(t, 1, tr.sessionCount)
}

func TestResumeReopensOnNextTick(t *testing.T) {
	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{queue: []Sample{codeSample()}})

	tr.clock = func() time.Time { return at(9, 30) }

	tr.tick(context.Background(), at(9, 0))
	tr.Pause()
	tr.tick(context.Background(), at(9, 40))
	tr.Resume()
	tr.tick(context.Background(), at(9, 50))

	open, ok := tr.Current()
	assert.True(t, ok)
	assert.Equal(t, at(9, 50), open.StartTime)
}

func TestRolloverAggregatesPreviousDay(t *testing.T) {
	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{queue: []Sample{codeSample()}})

	db.events = []models.RawEvent{
		{
			Timestamp: at(10, 0),
			Kind:      models.KindFocusChange,
			App:       "Code",
			Title:     "main.go",
		},
		{
			Timestamp: at(10, 5),
			Kind:      models.KindFocusChange,
			App:       "Code",
			Title:     "main.go",
		},
	}

	midnight := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	tr.rollover(midnight)

	agg, err := db.GetAggregate(at(0, 0))
	if err != nil {
		t.Fatal(err)
	}

	if agg == nil {
		t.Fatal("expected an aggregate for the finished day")
	}

	assert.InDelta(t, 300, agg.TotalSeconds, 0.01)
	assert.InDelta(t, 300, agg.ByCategory["Coding"], 0.01)
}

func TestRolloverSplitsOpenSession(t *testing.T) {
	db := newFakeDB()
	tr := newTestTracker(t, db, &fakeSampler{queue: []Sample{codeSample()}})

	tr.tick(context.Background(), at(23, 50))

	midnight := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	tr.rollover(midnight)

	open, ok := tr.Current()
	assert.True(t, ok)
	assert.Equal(t, midnight, open.StartTime)
	assert.Equal(t, "Code", open.Identity.App)
}

func TestNewRequiresSamplerCmd(t *testing.T) {
	cfg := testTrackerConfig()
	cfg.Tracker.SamplerCmd = ""

	_, err := New(cfg, newFakeDB(), nil)
	assert.Error(t, err)
}
