package engine

import (
	"sort"
	"time"

	"github.com/ayoisaiah/daybook/internal/models"
)

// sourceRank encodes the cross-source precedence policy: externally
// sourced calendar intervals always outrank manual entries, which outrank
// inferred app focus and browser intervals. Within the same rank the
// configured category precedence decides.
func sourceRank(s models.IntervalSource) int {
	switch s {
	case models.SourceCalendar:
		return 0
	case models.SourceManual:
		return 1
	default:
		return 2
	}
}

// absorbGaps merges same-category intervals from a single source separated
// by a gap no larger than tol into contiguous runs. This absorbs polling
// jitter before the cross-source sweep.
func absorbGaps(
	intervals []models.CategorizedInterval,
	tol time.Duration,
) []models.CategorizedInterval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]models.CategorizedInterval, len(intervals))
	copy(sorted, intervals)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	out := sorted[:1]

	for _, next := range sorted[1:] {
		cur := &out[len(out)-1]

		gap := next.StartTime.Sub(cur.EndTime)

		if next.Category == cur.Category && gap <= tol {
			if next.EndTime.After(cur.EndTime) {
				cur.EndTime = next.EndTime
			}

			continue
		}

		out = append(out, next)
	}

	return out
}

// covers reports whether the interval fully covers the span [start, end).
func covers(iv models.CategorizedInterval, start, end time.Time) bool {
	return !iv.StartTime.After(start) && !iv.EndTime.Before(end)
}

// stronger reports whether a beats b for a contested span. Order of
// comparison: source rank, configured category priority, longer covering
// interval, earlier start.
func (c Config) stronger(a, b models.CategorizedInterval) bool {
	ar, br := sourceRank(a.Source), sourceRank(b.Source)
	if ar != br {
		return ar < br
	}

	ap, bp := c.priority(a.Category), c.priority(b.Category)
	if ap != bp {
		return ap < bp
	}

	ad, bd := a.Duration(), b.Duration()
	if ad != bd {
		return ad > bd
	}

	return a.StartTime.Before(b.StartTime)
}

// Merge resolves categorized intervals from all sources into a
// non-overlapping timeline. A category losing a contested span loses it
// entirely for that span; time is never split proportionally. The sum of
// the output durations equals the union of the input spans exactly.
func Merge(
	cfg Config,
	intervals []models.CategorizedInterval,
) []models.MergedSegment {
	cfg = cfg.withDefaults()

	// non-positive durations are dropped defensively
	bySource := make(map[models.IntervalSource][]models.CategorizedInterval)

	for _, iv := range intervals {
		if !iv.EndTime.After(iv.StartTime) {
			continue
		}

		bySource[iv.Source] = append(bySource[iv.Source], iv)
	}

	var pool []models.CategorizedInterval

	for _, ivs := range bySource {
		pool = append(pool, absorbGaps(ivs, cfg.MergeGapTolerance)...)
	}

	if len(pool) == 0 {
		return nil
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if !pool[i].StartTime.Equal(pool[j].StartTime) {
			return pool[i].StartTime.Before(pool[j].StartTime)
		}

		return pool[i].EndTime.Before(pool[j].EndTime)
	})

	// every interval boundary is a cut point; each elementary span between
	// consecutive cut points is attributed to exactly one interval
	cutSet := make(map[time.Time]struct{}, len(pool)*2)
	for _, iv := range pool {
		cutSet[iv.StartTime] = struct{}{}
		cutSet[iv.EndTime] = struct{}{}
	}

	cuts := make([]time.Time, 0, len(cutSet))
	for t := range cutSet {
		cuts = append(cuts, t)
	}

	sort.Slice(cuts, func(i, j int) bool {
		return cuts[i].Before(cuts[j])
	})

	var segments []models.MergedSegment

	for i := 0; i < len(cuts)-1; i++ {
		start, end := cuts[i], cuts[i+1]

		var (
			winner models.CategorizedInterval
			found  bool
		)

		for _, iv := range pool {
			if !covers(iv, start, end) {
				continue
			}

			if !found || cfg.stronger(iv, winner) {
				winner = iv
				found = true
			}
		}

		if !found {
			continue
		}

		// coalesce with the previous segment when nothing distinguishes
		// them, preserving zero-gap adjacency across identity changes
		if n := len(segments); n > 0 {
			prev := &segments[n-1]

			if prev.EndTime.Equal(start) &&
				prev.Category == winner.Category &&
				prev.Identity == winner.Identity {
				prev.EndTime = end
				continue
			}
		}

		segments = append(segments, models.MergedSegment{
			StartTime: start,
			EndTime:   end,
			Identity:  winner.Identity,
			Category:  winner.Category,
			Project:   winner.Project,
		})
	}

	return segments
}

// validateMerged checks the non-overlap invariant on a merged timeline and
// returns a warning for each violation found. Violations indicate an
// upstream bug and are reported, never repaired silently.
func validateMerged(segments []models.MergedSegment) []string {
	var warnings []string

	for i := 1; i < len(segments); i++ {
		if segments[i].StartTime.Before(segments[i-1].EndTime) {
			warnings = append(warnings, overlapWarning(segments[i-1], segments[i]))
		}
	}

	return warnings
}
