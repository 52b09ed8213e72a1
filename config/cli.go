package config

import (
	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration overrides.
type CLIOptions struct {
	Timezone      string
	SamplerCmd    string
	ReportCmd     string
	PollSeconds   uint
	DisableNotify bool
}

// WithCLIConfig returns an Option that overrides configuration from CLI
// flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Timezone:      ctx.String("timezone"),
			SamplerCmd:    ctx.String("sampler-cmd"),
			ReportCmd:     ctx.String("report-cmd"),
			PollSeconds:   ctx.Uint("poll"),
			DisableNotify: ctx.Bool("disable-notification"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if opts.Timezone != "" {
		c.Report.Timezone = opts.Timezone
	}

	if opts.SamplerCmd != "" {
		c.Tracker.SamplerCmd = opts.SamplerCmd
	}

	if opts.ReportCmd != "" {
		c.Report.Cmd = opts.ReportCmd
	}

	if opts.PollSeconds != 0 {
		c.Tracker.PollSeconds = int(opts.PollSeconds)
	}

	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}

	return nil
}
