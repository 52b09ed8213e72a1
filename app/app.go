package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/daybook/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the daybook app instance.
func Get() *cli.App {
	daybookApp := &cli.App{
		Name: "daybook",
		Usage: `
		Daybook is a personal activity tracker for the command-line. It samples
		the focused window, reconciles the day's activity into a consistent
		timeline, and reports where your deep work actually happened.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name: "report",
				Usage: `
				Print the daily report: time by category, hourly distribution, deep
				work blocks, interruptions, and the productivity score`,
				Action: reportAction,
				Flags:  []cli.Flag{dateFlag, jsonFlag, recomputeFlag, timezoneFlag},
			},
			{
				Name:   "dashboard",
				Usage:  "Show a live dashboard of today's activity",
				Action: dashboardAction,
				Flags:  []cli.Flag{timezoneFlag},
			},
			{
				Name:   "list",
				Usage:  "List the raw events recorded on a day",
				Action: listAction,
				Flags:  []cli.Flag{dateFlag, jsonFlag, timezoneFlag},
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			timezoneFlag,
			samplerCmdFlag,
			reportCmdFlag,
			pollFlag,
			disableNotificationFlag,
			noColorFlag,
		},
		Action: trackAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return daybookApp
}
