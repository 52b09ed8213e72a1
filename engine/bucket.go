package engine

import (
	"fmt"
	"time"

	"github.com/ayoisaiah/daybook/internal/models"
	"github.com/ayoisaiah/daybook/internal/timeutil"
)

// Bucketize distributes merged segments into 24 wall-clock-hour
// accumulators in the report timezone. A segment crossing an hour boundary
// contributes its exact sub-span to each hour it touches, so the per-hour
// contributions always sum to the segment's duration.
//
// An hour accumulating more than 3600 raw seconds means an overlap survived
// the merge. That is reported as a validation warning and deliberately not
// clamped: clamping would mask the upstream bug.
func Bucketize(
	loc *time.Location,
	segments []models.MergedSegment,
) ([]models.HourlyBucket, []string) {
	seconds := make([]float64, timeutil.HoursInADay)

	for _, seg := range segments {
		t := seg.StartTime.In(loc)
		end := seg.EndTime.In(loc)

		for t.Before(end) {
			boundary := timeutil.NextHour(t)
			if boundary.After(end) {
				boundary = end
			}

			seconds[t.Hour()] += boundary.Sub(t).Seconds()

			t = boundary
		}
	}

	var (
		warnings []string
		peak     float64
	)

	for hour, s := range seconds {
		if s > timeutil.SecondsInAnHour {
			warnings = append(warnings, fmt.Sprintf(
				"hour %02d accumulated %.0f seconds (over 3600): unresolved overlap upstream",
				hour,
				s,
			))
		}

		if s > peak {
			peak = s
		}
	}

	buckets := make([]models.HourlyBucket, timeutil.HoursInADay)

	for hour := range buckets {
		b := models.HourlyBucket{
			Hour:    hour,
			Seconds: seconds[hour],
		}

		if peak > 0 {
			b.PercentOfPeakHour = seconds[hour] / peak * 100
		}

		buckets[hour] = b
	}

	return buckets, warnings
}

func overlapWarning(a, b models.MergedSegment) string {
	return fmt.Sprintf(
		"merged segments overlap: [%s, %s) and [%s, %s)",
		a.StartTime.Format(time.RFC3339),
		a.EndTime.Format(time.RFC3339),
		b.StartTime.Format(time.RFC3339),
		b.EndTime.Format(time.RFC3339),
	)
}
