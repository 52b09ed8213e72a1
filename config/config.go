// Package config loads, validates, and exposes daybook's configuration.
// The resulting value is passed explicitly to every consumer; nothing in
// the engine reads ambient global state.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/daybook/engine"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Rules         RulesConfig        `mapstructure:"rules"`
		Precedence    []string           `mapstructure:"precedence"`
		DeepWork      DeepWorkConfig     `mapstructure:"deep_work"`
		Tracker       TrackerConfig      `mapstructure:"tracker"`
		Report        ReportConfig       `mapstructure:"report"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Display       DisplayConfig      `mapstructure:"display"`
	}

	// RuleConfig is one ordered pattern→label classification rule.
	RuleConfig struct {
		Pattern string `mapstructure:"pattern"`
		Label   string `mapstructure:"label"`
		Project string `mapstructure:"project"`
	}

	// RulesConfig holds the classification rule lists. Order is
	// significant and preserved exactly as written in the config file.
	RulesConfig struct {
		Apps    []RuleConfig `mapstructure:"apps"`
		Titles  []RuleConfig `mapstructure:"titles"`
		Domains []RuleConfig `mapstructure:"domains"`
	}

	// DeepWorkConfig holds deep work detection settings.
	DeepWorkConfig struct {
		Categories        []string `mapstructure:"categories"`
		ThresholdMinutes  int      `mapstructure:"threshold_minutes"`
		MaxGapMinutes     int      `mapstructure:"max_gap_minutes"`
		MorningBonusStart int      `mapstructure:"morning_bonus_start"`
		MorningBonusEnd   int      `mapstructure:"morning_bonus_end"`
		PostLunchDipStart int      `mapstructure:"post_lunch_dip_start"`
		PostLunchDipEnd   int      `mapstructure:"post_lunch_dip_end"`
	}

	// TrackerConfig holds polling and segmentation settings.
	TrackerConfig struct {
		SamplerCmd           string `mapstructure:"sampler_cmd"`
		PollSeconds          int    `mapstructure:"poll_seconds"`
		IdleThresholdSeconds int    `mapstructure:"idle_threshold_seconds"`
		HeartbeatSeconds     int    `mapstructure:"heartbeat_seconds"`
	}

	// ReportConfig holds aggregation and rendering settings.
	ReportConfig struct {
		Timezone                 string  `mapstructure:"timezone"`
		Cmd                      string  `mapstructure:"cmd"`
		MergeGapSeconds          int     `mapstructure:"merge_gap_seconds"`
		ContextSwitchCostSeconds int     `mapstructure:"context_switch_cost_seconds"`
		InterruptionPenalty      float64 `mapstructure:"interruption_penalty"`
	}

	// NotificationConfig holds notification settings.
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// DisplayConfig holds display-related settings.
	DisplayConfig struct {
		DarkTheme bool `mapstructure:"dark_theme"`
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.1"

var (
	configDir      = "daybook"
	configFileName = "config.yml"
	dbFileName     = "daybook.db"
	logFileName    = "daybook.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

func InitializePaths() {
	daybookEnv := strings.TrimSpace(os.Getenv("DAYBOOK_ENV"))
	if daybookEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", daybookEnv)
		dbFileName = fmt.Sprintf("daybook_%s.db", daybookEnv)
		logFileName = fmt.Sprintf("daybook_%s.log", daybookEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

func compileRules(rules []RuleConfig) ([]engine.Rule, error) {
	out := make([]engine.Rule, 0, len(rules))

	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, errInvalidRulePattern.Fmt(r.Pattern, err)
		}

		out = append(out, engine.Rule{
			Pattern: re,
			Label:   r.Label,
			Project: r.Project,
		})
	}

	return out, nil
}

// Engine builds the explicit engine configuration, compiling every
// classification pattern once.
func (c *Config) Engine() (engine.Config, error) {
	apps, err := compileRules(c.Rules.Apps)
	if err != nil {
		return engine.Config{}, err
	}

	titles, err := compileRules(c.Rules.Titles)
	if err != nil {
		return engine.Config{}, err
	}

	domains, err := compileRules(c.Rules.Domains)
	if err != nil {
		return engine.Config{}, err
	}

	loc := time.Local

	if tz := c.Report.Timezone; tz != "" && !strings.EqualFold(tz, "local") {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return engine.Config{}, errInvalidTimezone.Fmt(tz)
		}
	}

	cfg := engine.Config{
		Location:           loc,
		Rules:              engine.RuleSet{Apps: apps, Titles: titles, Domains: domains},
		Precedence:         c.Precedence,
		DeepWorkCategories: c.DeepWork.Categories,
		MergeGapTolerance:  time.Duration(c.Report.MergeGapSeconds) * time.Second,
		DeepWorkThreshold: time.Duration(
			c.DeepWork.ThresholdMinutes,
		) * time.Minute,
		MaxDeepWorkGap: time.Duration(c.DeepWork.MaxGapMinutes) * time.Minute,
		IdleThreshold: time.Duration(
			c.Tracker.IdleThresholdSeconds,
		) * time.Second,
		Heartbeat: time.Duration(c.Tracker.HeartbeatSeconds) * time.Second,
		ContextSwitchCost: time.Duration(
			c.Report.ContextSwitchCostSeconds,
		) * time.Second,
		InterruptionPenalty: c.Report.InterruptionPenalty,
		MorningBonus: engine.HourWindow{
			Start: c.DeepWork.MorningBonusStart,
			End:   c.DeepWork.MorningBonusEnd,
		},
		PostLunchDip: engine.HourWindow{
			Start: c.DeepWork.PostLunchDipStart,
			End:   c.DeepWork.PostLunchDipEnd,
		},
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}

	return cfg, nil
}

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
