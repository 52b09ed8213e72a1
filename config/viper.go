package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keyRuleApps             = "rules.apps"
	keyRuleTitles           = "rules.titles"
	keyRuleDomains          = "rules.domains"
	keyPrecedence           = "precedence"
	keyDeepWorkCategories   = "deep_work.categories"
	keyDeepWorkThreshold    = "deep_work.threshold_minutes"
	keyDeepWorkMaxGap       = "deep_work.max_gap_minutes"
	keyMorningBonusStart    = "deep_work.morning_bonus_start"
	keyMorningBonusEnd      = "deep_work.morning_bonus_end"
	keyPostLunchDipStart    = "deep_work.post_lunch_dip_start"
	keyPostLunchDipEnd      = "deep_work.post_lunch_dip_end"
	keySamplerCmd           = "tracker.sampler_cmd"
	keyPollSeconds          = "tracker.poll_seconds"
	keyIdleThresholdSeconds = "tracker.idle_threshold_seconds"
	keyHeartbeatSeconds     = "tracker.heartbeat_seconds"
	keyReportTimezone       = "report.timezone"
	keyReportCmd            = "report.cmd"
	keyMergeGapSeconds      = "report.merge_gap_seconds"
	keyContextSwitchCost    = "report.context_switch_cost_seconds"
	keyInterruptionPenalty  = "report.interruption_penalty"
	keyNotificationsEnabled = "notifications.enabled"
	keyDarkTheme            = "display.dark_theme"
)

// WithViperConfig returns an Option that loads configuration from Viper,
// writing a default config file on first run.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setViperDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setViperDefaults configures Viper with a working starter configuration.
// The rule lists are examples the user is expected to grow; the thresholds
// are the documented engine defaults.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault(keyRuleApps, []map[string]string{
		{"pattern": `(?i)code|goland|vim|emacs|zed`, "label": "Coding"},
		{"pattern": `(?i)terminal|kitty|alacritty`, "label": "Coding"},
		{"pattern": `(?i)slack|discord|telegram`, "label": "Chat"},
		{"pattern": `(?i)zoom|meet|teams`, "label": "Meetings"},
		{"pattern": `(?i)obsidian|notion`, "label": "Writing"},
	})
	v.SetDefault(keyRuleTitles, []map[string]string{
		{"pattern": `(?i)pull request|merge request`, "label": "Code Review"},
	})
	v.SetDefault(keyRuleDomains, []map[string]string{
		{"pattern": `github\.com|gitlab\.com`, "label": "Code Review"},
		{"pattern": `stackoverflow\.com|pkg\.go\.dev`, "label": "Research"},
		{"pattern": `youtube\.com|reddit\.com|news\.ycombinator\.com`, "label": "Browsing"},
	})
	v.SetDefault(keyPrecedence, []string{
		"Meetings",
		"Coding",
		"Code Review",
		"Writing",
		"Research",
		"Chat",
		"Browsing",
	})
	v.SetDefault(keyDeepWorkCategories, []string{
		"Coding",
		"Code Review",
		"Writing",
	})
	v.SetDefault(keyDeepWorkThreshold, 25)
	v.SetDefault(keyDeepWorkMaxGap, 5)
	v.SetDefault(keyMorningBonusStart, 8)
	v.SetDefault(keyMorningBonusEnd, 12)
	v.SetDefault(keyPostLunchDipStart, 13)
	v.SetDefault(keyPostLunchDipEnd, 15)
	v.SetDefault(keySamplerCmd, "")
	v.SetDefault(keyPollSeconds, 10)
	v.SetDefault(keyIdleThresholdSeconds, 300)
	v.SetDefault(keyHeartbeatSeconds, 600)
	v.SetDefault(keyReportTimezone, "Local")
	v.SetDefault(keyReportCmd, "")
	v.SetDefault(keyMergeGapSeconds, 30)
	v.SetDefault(keyContextSwitchCost, 60)
	v.SetDefault(keyInterruptionPenalty, 1.0)
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyDarkTheme, true)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	return v.Unmarshal(c)
}
