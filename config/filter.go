package config

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/daybook/internal/timeutil"
)

// FilterConfig represents the time range for a report run.
type FilterConfig struct {
	Date time.Time
}

// Filter resolves the report date from CLI flags, defaulting to today.
// Natural language values like "yesterday" are accepted.
func Filter(ctx *cli.Context) (*FilterConfig, error) {
	date := time.Now()

	if v := ctx.String("date"); v != "" {
		parsed, err := timeutil.FromStr(v)
		if err != nil {
			return nil, errInvalidDate.Fmt(v)
		}

		date = parsed
	}

	return &FilterConfig{Date: timeutil.RoundToStart(date)}, nil
}
