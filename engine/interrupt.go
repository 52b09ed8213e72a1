package engine

import (
	"github.com/ayoisaiah/daybook/internal/models"
)

// AnalyzeInterruptions derives disruption metrics from identity-switch
// events in the raw stream. It works on raw events rather than the merged
// timeline so that switches absorbed by gap merging are still counted.
func AnalyzeInterruptions(
	cfg Config,
	events []models.RawEvent,
) models.InterruptionStats {
	cfg = cfg.withDefaults()

	stats := models.InterruptionStats{
		PerHour: make(map[int]int),
	}

	for _, ev := range events {
		if ev.Kind != models.KindIdentitySwitch || ev.Timestamp.IsZero() {
			continue
		}

		hour := ev.Timestamp.In(cfg.Location).Hour()

		stats.PerHour[hour]++
		stats.Total++
	}

	if stats.Total == 0 {
		return stats
	}

	activeHours := 0
	peakCount := 0

	for hour := 0; hour < 24; hour++ {
		count := stats.PerHour[hour]
		if count == 0 {
			continue
		}

		activeHours++

		// ties break towards the earliest hour
		if count > peakCount {
			peakCount = count
			stats.PeakHour = hour
		}
	}

	stats.AvgPerHour = float64(stats.Total) / float64(activeHours)
	stats.EstMinutesLost = float64(stats.Total) *
		cfg.ContextSwitchCost.Seconds() / 60

	return stats
}
