package engine

import (
	"math"

	"github.com/ayoisaiah/daybook/internal/models"
)

// Rating bands for the composite productivity score.
const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingFair             = "Fair"
	RatingNeedsImprovement = "Needs Improvement"
)

func rating(overall float64) string {
	switch {
	case overall >= 80:
		return RatingExcellent
	case overall >= 60:
		return RatingGood
	case overall >= 40:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}

// Score combines deep work share, interruption pressure, and block quality
// into one composite score out of 100. Every division is guarded so a day
// with no focus time or no blocks yields defined zero components.
func Score(
	cfg Config,
	blocks []models.DeepWorkBlock,
	totalFocusMinutes float64,
	totalInterruptions int,
) models.ProductivityScore {
	cfg = cfg.withDefaults()

	var deepWorkMinutes float64
	for _, b := range blocks {
		deepWorkMinutes += b.Minutes
	}

	var deepWork float64
	if totalFocusMinutes > 0 {
		deepWork = math.Min(40, deepWorkMinutes/totalFocusMinutes*40)
	}

	interruption := math.Max(
		0,
		30-cfg.InterruptionPenalty*float64(totalInterruptions),
	)

	var quality float64

	if len(blocks) > 0 {
		var sum float64
		for _, b := range blocks {
			sum += b.QualityScore
		}

		quality = sum / float64(len(blocks)) / 100 * 30
	}

	overall := deepWork + interruption + quality

	return models.ProductivityScore{
		Overall:               overall,
		DeepWorkComponent:     deepWork,
		InterruptionComponent: interruption,
		QualityComponent:      quality,
		Rating:                rating(overall),
	}
}
