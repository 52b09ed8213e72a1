package engine

import (
	"time"

	"github.com/ayoisaiah/daybook/internal/models"
)

// blockBuilder accumulates one in-progress deep work block.
type blockBuilder struct {
	start         time.Time
	end           time.Time
	lastCategory  string
	lastIdentity  models.Identity
	byCategory    map[string]time.Duration
	byApp         map[string]time.Duration
	categoryOrder []string
	appOrder      []string
	accumulated   time.Duration
	interruptions int
}

func newBlockBuilder(seg models.MergedSegment) *blockBuilder {
	b := &blockBuilder{
		start:      seg.StartTime,
		byCategory: make(map[string]time.Duration),
		byApp:      make(map[string]time.Duration),
	}
	b.extend(seg)

	return b
}

func (b *blockBuilder) extend(seg models.MergedSegment) {
	d := seg.Duration()

	if _, seen := b.byCategory[seg.Category]; !seen {
		b.categoryOrder = append(b.categoryOrder, seg.Category)
	}

	if _, seen := b.byApp[seg.Identity.App]; !seen {
		b.appOrder = append(b.appOrder, seg.Identity.App)
	}

	b.byCategory[seg.Category] += d
	b.byApp[seg.Identity.App] += d
	b.accumulated += d
	b.end = seg.EndTime
	b.lastCategory = seg.Category
	b.lastIdentity = seg.Identity
}

// dominant picks the key with the greatest accumulated duration, breaking
// ties towards the earliest occurrence.
func dominant(totals map[string]time.Duration, order []string) string {
	var (
		best    string
		bestDur time.Duration
		found   bool
	)

	for _, k := range order {
		if !found || totals[k] > bestDur {
			best = k
			bestDur = totals[k]
			found = true
		}
	}

	return best
}

// qualityScore computes the deterministic block quality score: start at 70,
// subtract 5 per interruption, add 20 for blocks of at least two hours or
// 10 for at least one hour, add 10 for a morning start, subtract 5 for a
// post-lunch start, clamped to [0, 100].
func qualityScore(cfg Config, b *blockBuilder) float64 {
	score := 70.0

	score -= 5 * float64(b.interruptions)

	minutes := b.accumulated.Minutes()

	switch {
	case minutes >= 120:
		score += 20
	case minutes >= 60:
		score += 10
	}

	startHour := b.start.In(cfg.Location).Hour()

	if cfg.MorningBonus.Contains(startHour) {
		score += 10
	}

	if cfg.PostLunchDip.Contains(startHour) {
		score -= 5
	}

	if score < 0 {
		score = 0
	}

	if score > 100 {
		score = 100
	}

	return score
}

func (b *blockBuilder) build(cfg Config) models.DeepWorkBlock {
	return models.DeepWorkBlock{
		StartTime:        b.start,
		EndTime:          b.end,
		Minutes:          b.accumulated.Minutes(),
		DominantCategory: dominant(b.byCategory, b.categoryOrder),
		DominantApp:      dominant(b.byApp, b.appOrder),
		Interruptions:    b.interruptions,
		QualityScore:     qualityScore(cfg, b),
	}
}

// DetectDeepWork groups eligible-category segments into scored blocks. A
// gap of up to MaxDeepWorkGap between eligible segments extends the running
// block, regardless of category changes among eligible categories. Adjacent
// segments with identical identity and zero gap are one logical session:
// they extend the block without counting as an interruption.
func DetectDeepWork(
	cfg Config,
	segments []models.MergedSegment,
) []models.DeepWorkBlock {
	cfg = cfg.withDefaults()

	var eligible []models.MergedSegment

	for _, seg := range segments {
		if cfg.eligible(seg.Category) {
			eligible = append(eligible, seg)
		}
	}

	if len(eligible) == 0 {
		return nil
	}

	var (
		blocks  []models.DeepWorkBlock
		current *blockBuilder
	)

	flush := func() {
		if current == nil {
			return
		}

		if current.accumulated >= cfg.DeepWorkThreshold {
			blocks = append(blocks, current.build(cfg))
		}

		current = nil
	}

	for _, seg := range eligible {
		if current == nil {
			current = newBlockBuilder(seg)
			continue
		}

		gap := seg.StartTime.Sub(current.end)

		if gap > cfg.MaxDeepWorkGap {
			flush()

			current = newBlockBuilder(seg)

			continue
		}

		// a heartbeat commit produces zero gap and identical identity;
		// a bridged gap or a category/app change is a context change
		if gap > 0 || seg.Category != current.lastCategory ||
			seg.Identity.App != current.lastIdentity.App {
			current.interruptions++
		}

		current.extend(seg)
	}

	flush()

	return blocks
}
