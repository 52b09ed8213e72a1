package engine

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/daybook/internal/models"
)

func testConfig() Config {
	return Config{
		Location: time.UTC,
		Rules: RuleSet{
			Apps: []Rule{
				{
					Pattern: regexp.MustCompile(`(?i)code|goland|vim`),
					Label:   "Coding",
					Project: "daybook",
				},
				{
					Pattern: regexp.MustCompile(`(?i)slack|discord`),
					Label:   "Chat",
				},
				{
					Pattern: regexp.MustCompile(`(?i)obsidian`),
					Label:   "Writing",
				},
			},
			Domains: []Rule{
				{
					Pattern: regexp.MustCompile(`github\.com`),
					Label:   "Code Review",
				},
			},
		},
		Precedence: []string{
			"Meetings",
			"Coding",
			"Code Review",
			"Writing",
			"Chat",
		},
		DeepWorkCategories: []string{"Coding", "Code Review", "Writing"},
	}
}

func day() time.Time {
	return time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 14, hour, minute, 0, 0, time.UTC)
}

func focusEvent(t time.Time, app, title string) models.RawEvent {
	return models.RawEvent{
		Timestamp: t,
		Kind:      models.KindFocusChange,
		App:       app,
		Title:     title,
	}
}

func TestDailyEmptyInput(t *testing.T) {
	agg, err := Daily(testConfig(), day(), nil)
	if err != nil {
		t.Fatal(err)
	}

	assert.Zero(t, agg.TotalSeconds)
	assert.Empty(t, agg.ByApp)
	assert.Empty(t, agg.ByCategory)
	assert.Empty(t, agg.ByProject)
	assert.Empty(t, agg.DeepWork)
	assert.Len(t, agg.Hourly, 24)
	assert.Zero(t, agg.Interruptions.Total)

	// with no focus time and no blocks, only the interruption baseline
	// contributes to the score
	assert.Equal(t, 30.0, agg.Score.Overall)
	assert.Zero(t, agg.Score.DeepWorkComponent)
	assert.Zero(t, agg.Score.QualityComponent)
}

func TestDailyMissingRequiredConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Precedence = nil

	_, err := Daily(cfg, day(), nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.DeepWorkCategories = nil

	_, err = Daily(cfg, day(), nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Location = nil

	_, err = Daily(cfg, day(), nil)
	assert.Error(t, err)
}

func TestDailyIdempotence(t *testing.T) {
	events := []models.RawEvent{
		focusEvent(at(9, 0), "Code", "main.go"),
		focusEvent(at(9, 30), "Slack", "#general"),
		focusEvent(at(9, 35), "Code", "main.go"),
		{
			Timestamp: at(10, 0),
			Kind:      models.KindMeetingStart,
			Name:      "standup",
		},
		{
			Timestamp: at(10, 15),
			Kind:      models.KindMeetingEnd,
			Name:      "standup",
		},
		{Timestamp: at(9, 30), Kind: models.KindIdentitySwitch},
		focusEvent(at(11, 0), "Code", "main.go"),
		{Timestamp: at(11, 30), Kind: models.KindIdleStart, IdleSeconds: 300},
	}

	first, err := Daily(testConfig(), day(), events)
	if err != nil {
		t.Fatal(err)
	}

	second, err := Daily(testConfig(), day(), events)
	if err != nil {
		t.Fatal(err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}

	b, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, string(a), string(b))
}

func TestDailySkipsMalformedEvents(t *testing.T) {
	events := []models.RawEvent{
		focusEvent(at(9, 0), "Code", "main.go"),
		{Kind: models.KindFocusChange, App: "Code"}, // no timestamp
		{Timestamp: at(9, 10), Kind: "bogus"},
		focusEvent(at(9, 20), "", ""), // focus change without an app
		focusEvent(at(9, 30), "Slack", "#general"),
		focusEvent(at(9, 40), "Slack", "#general"),
	}

	agg, err := Daily(testConfig(), day(), events)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, 3, agg.SkippedEvents)
	assert.InDelta(t, 40*60, agg.TotalSeconds, 0.001)
}

func TestDailyOutOfOrderEvents(t *testing.T) {
	ordered := []models.RawEvent{
		focusEvent(at(9, 0), "Code", "main.go"),
		focusEvent(at(9, 30), "Slack", "#general"),
		focusEvent(at(10, 0), "Code", "main.go"),
		focusEvent(at(10, 30), "Slack", "#general"),
	}

	shuffled := []models.RawEvent{
		ordered[2], ordered[0], ordered[3], ordered[1],
	}

	a, err := Daily(testConfig(), day(), ordered)
	if err != nil {
		t.Fatal(err)
	}

	b, err := Daily(testConfig(), day(), shuffled)
	if err != nil {
		t.Fatal(err)
	}

	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)

	assert.JSONEq(t, string(aj), string(bj))
}

func TestDailyMeetingWithoutEnd(t *testing.T) {
	events := []models.RawEvent{
		{
			Timestamp: at(16, 0),
			Kind:      models.KindMeetingStart,
			Name:      "retro",
		},
	}

	agg, err := Daily(testConfig(), day(), events)
	if err != nil {
		t.Fatal(err)
	}

	assert.NotEmpty(t, agg.Warnings)
	assert.Greater(t, agg.ByCategory["Meetings"], 0.0)
}

func TestDailyIdleTimeNotAttributed(t *testing.T) {
	events := []models.RawEvent{
		focusEvent(at(9, 0), "Code", "main.go"),
		// idle detected at 10:00, idle for the last 10 minutes
		{Timestamp: at(10, 0), Kind: models.KindIdleStart, IdleSeconds: 600},
		{Timestamp: at(10, 30), Kind: models.KindIdleEnd},
		focusEvent(at(10, 31), "Code", "main.go"),
		focusEvent(at(11, 0), "Slack", "#general"),
	}

	agg, err := Daily(testConfig(), day(), events)
	if err != nil {
		t.Fatal(err)
	}

	// 09:00-09:50 coding, then 10:31-11:00 coding: idle span excluded
	assert.InDelta(t, (50+29)*60, agg.ByCategory["Coding"], 0.001)
}
