package app

import "github.com/urfave/cli/v2"

var (
	dateFlag = &cli.StringFlag{
		Name:  "date",
		Usage: "Report on a specific day (e.g. '2024-03-14' or 'yesterday'). Defaults to today",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output in JSON format",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	timezoneFlag = &cli.StringFlag{
		Name:    "timezone",
		Aliases: []string{"tz"},
		Usage:   "IANA timezone for day boundaries and reports (e.g. 'Europe/Berlin'). Defaults to the system timezone",
	}

	samplerCmdFlag = &cli.StringFlag{
		Name:  "sampler-cmd",
		Usage: "Command that reports the focused window as JSON on stdout",
	}

	reportCmdFlag = &cli.StringFlag{
		Name:  "report-cmd",
		Usage: "Execute an arbitrary command after the midnight rollover. The finished date is passed as the last argument",
	}

	pollFlag = &cli.UintFlag{
		Name:  "poll",
		Usage: "Sampling interval in seconds (default: 10)",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification shown after the midnight rollover",
	}

	recomputeFlag = &cli.BoolFlag{
		Name:  "recompute",
		Usage: "Recompute the aggregate from the event log instead of using a stored one",
	}
)
