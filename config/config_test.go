package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/daybook/config"
	"github.com/ayoisaiah/daybook/internal/testutil"
)

func loadConfig(t *testing.T, opts ...config.Option) *config.Config {
	t.Helper()

	cfg, err := config.New(opts...)
	if err != nil {
		t.Fatal(err)
	}

	return cfg
}

func TestViperWritesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg := loadConfig(t, config.WithViperConfig(configPath))

	assert.FileExists(t, configPath)

	assert.Equal(t, []string{
		"Meetings",
		"Coding",
		"Code Review",
		"Writing",
		"Research",
		"Chat",
		"Browsing",
	}, cfg.Precedence)

	assert.Equal(t, 25, cfg.DeepWork.ThresholdMinutes)
	assert.Equal(t, 5, cfg.DeepWork.MaxGapMinutes)
	assert.Equal(t, 10, cfg.Tracker.PollSeconds)
	assert.Equal(t, 300, cfg.Tracker.IdleThresholdSeconds)
	assert.Equal(t, 600, cfg.Tracker.HeartbeatSeconds)
	assert.Equal(t, 30, cfg.Report.MergeGapSeconds)
	assert.Equal(t, 60, cfg.Report.ContextSwitchCostSeconds)
	assert.Equal(t, "Local", cfg.Report.Timezone)
	assert.True(t, cfg.Notifications.Enabled)
	assert.NotEmpty(t, cfg.Rules.Apps)
}

func TestViperReadsModifiedConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	err := testutil.CopyFile("testdata/modified_config.golden", configPath)
	if err != nil {
		t.Fatal(err)
	}

	cfg := loadConfig(t, config.WithViperConfig(configPath))

	assert.Equal(t, []string{"Meetings", "Coding"}, cfg.Precedence)
	assert.Equal(t, []string{"Coding"}, cfg.DeepWork.Categories)
	assert.Equal(t, 45, cfg.DeepWork.ThresholdMinutes)
	assert.Equal(t, 5, cfg.Tracker.PollSeconds)
	assert.Equal(t, "UTC", cfg.Report.Timezone)
	assert.False(t, cfg.Notifications.Enabled)

	assert.Len(t, cfg.Rules.Apps, 2)
	assert.Equal(t, "Coding", cfg.Rules.Apps[0].Label)
	assert.Equal(t, "daybook", cfg.Rules.Apps[0].Project)
}

func TestValidateMissingPrecedence(t *testing.T) {
	cfg := &config.Config{
		DeepWork: config.DeepWorkConfig{Categories: []string{"Coding"}},
	}

	assert.Error(t, cfg.Validate())
}

func TestValidateMissingCategories(t *testing.T) {
	cfg := &config.Config{
		Precedence: []string{"Coding"},
	}

	assert.Error(t, cfg.Validate())
}

func TestValidateRuleWithoutLabel(t *testing.T) {
	cfg := &config.Config{
		Precedence: []string{"Coding"},
		DeepWork:   config.DeepWorkConfig{Categories: []string{"Coding"}},
		Rules: config.RulesConfig{
			Apps: []config.RuleConfig{{Pattern: "code"}},
		},
	}

	assert.Error(t, cfg.Validate())
}

func TestValidateBadHourWindow(t *testing.T) {
	cfg := &config.Config{
		Precedence: []string{"Coding"},
		DeepWork: config.DeepWorkConfig{
			Categories:        []string{"Coding"},
			MorningBonusStart: 12,
			MorningBonusEnd:   8,
		},
	}

	assert.Error(t, cfg.Validate())
}

func TestEngineConfig(t *testing.T) {
	cfg := &config.Config{
		Precedence: []string{"Meetings", "Coding"},
		DeepWork: config.DeepWorkConfig{
			Categories:       []string{"Coding"},
			ThresholdMinutes: 45,
		},
		Rules: config.RulesConfig{
			Apps: []config.RuleConfig{
				{Pattern: `(?i)code`, Label: "Coding"},
			},
		},
		Report: config.ReportConfig{Timezone: "UTC"},
	}

	eng, err := cfg.Engine()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, time.UTC, eng.Location)
	assert.Equal(t, 45*time.Minute, eng.DeepWorkThreshold)
	assert.Len(t, eng.Rules.Apps, 1)
}

func TestEngineConfigBadPattern(t *testing.T) {
	cfg := &config.Config{
		Precedence: []string{"Coding"},
		DeepWork:   config.DeepWorkConfig{Categories: []string{"Coding"}},
		Rules: config.RulesConfig{
			Apps: []config.RuleConfig{
				{Pattern: `([`, Label: "Broken"},
			},
		},
	}

	_, err := cfg.Engine()
	assert.Error(t, err)
}

func TestEngineConfigBadTimezone(t *testing.T) {
	cfg := &config.Config{
		Precedence: []string{"Coding"},
		DeepWork:   config.DeepWorkConfig{Categories: []string{"Coding"}},
		Report:     config.ReportConfig{Timezone: "Mars/Olympus"},
	}

	_, err := cfg.Engine()
	assert.Error(t, err)
}
