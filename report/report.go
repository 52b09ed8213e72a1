// Package report renders a daily aggregate for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/daybook/engine"
	"github.com/ayoisaiah/daybook/internal/models"
	"github.com/ayoisaiah/daybook/internal/timeutil"
	"github.com/ayoisaiah/daybook/internal/ui"
)

const (
	barChartChar = "▇"
	noDataMsg    = "No activity recorded for the specified day"
)

func formatSeconds(seconds float64) string {
	d := time.Duration(seconds) * time.Second

	//nolint:gomnd // limit to first 2 units
	return durafmt.Parse(d).LimitToUnit("hours").LimitFirstN(2).String()
}

func ratingColor(rating string) string {
	switch rating {
	case engine.RatingExcellent:
		return ui.Green(rating)
	case engine.RatingGood:
		return ui.Cyan(rating)
	case engine.RatingFair:
		return ui.Yellow(rating)
	default:
		return ui.Red(rating)
	}
}

// getSummary produces the headline block: total time, deep work time,
// and the composite score with its rating band.
func getSummary(agg *models.DailyAggregate) string {
	header := fmt.Sprintf("%s\n", ui.Blue("Summary"))

	var deepWorkSeconds float64
	for _, b := range agg.DeepWork {
		deepWorkSeconds += b.Minutes * 60
	}

	timeLogged := fmt.Sprintf(
		"Time logged: %s\n",
		ui.Green(formatSeconds(agg.TotalSeconds)),
	)

	deepWork := fmt.Sprintf(
		"Deep work: %s in %s\n",
		ui.Green(formatSeconds(deepWorkSeconds)),
		ui.Green(fmt.Sprintf("%d block(s)", len(agg.DeepWork))),
	)

	score := fmt.Sprintf(
		"Productivity score: %s (%s)\n",
		ui.Green(fmt.Sprintf("%.0f/100", agg.Score.Overall)),
		ratingColor(agg.Score.Rating),
	)

	return header + timeLogged + deepWork + score
}

// getBreakdown renders one name→seconds map sorted by descending time.
func getBreakdown(title string, totals map[string]float64) string {
	if len(totals) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", ui.Blue(title)))

	type keyValue struct {
		key   string
		value float64
	}

	kv := make([]keyValue, 0, len(totals))
	for k, v := range totals {
		kv = append(kv, keyValue{k, v})
	}

	sort.SliceStable(kv, func(i, j int) bool {
		if kv[i].value != kv[j].value {
			return kv[i].value > kv[j].value
		}

		return kv[i].key < kv[j].key
	})

	for _, v := range kv {
		builder.WriteString(fmt.Sprintf(
			"%s: %s\n",
			v.key,
			ui.Green(formatSeconds(v.value)),
		))
	}

	return builder.String()
}

// getHourlyChart renders the hour-of-day distribution as a horizontal
// bar chart in minutes.
func getHourlyChart(buckets []models.HourlyBucket) string {
	if len(buckets) == 0 {
		return ""
	}

	header := ui.Blue("\nHourly breakdown (minutes)")

	var bars pterm.Bars

	for _, b := range buckets {
		bars = append(bars, pterm.Bar{
			Value: timeutil.Round(b.Seconds / 60),
			Label: fmt.Sprintf("%02d:00", b.Hour),
		})
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return header + chart
}

func getDeepWork(blocks []models.DeepWorkBlock) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", ui.Blue("Deep work blocks")))

	if len(blocks) == 0 {
		builder.WriteString("None detected\n")
		return builder.String()
	}

	for _, b := range blocks {
		builder.WriteString(fmt.Sprintf(
			"%s - %s  %s  %s  quality %s, %s interruption(s)\n",
			b.StartTime.Format("15:04"),
			b.EndTime.Format("15:04"),
			ui.Green(formatSeconds(b.Minutes*60)),
			ui.Cyan(b.DominantCategory),
			ui.Green(fmt.Sprintf("%.0f", b.QualityScore)),
			ui.Yellow(b.Interruptions),
		))
	}

	return builder.String()
}

func getInterruptions(stats models.InterruptionStats) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", ui.Blue("Interruptions")))

	if stats.Total == 0 {
		builder.WriteString("None recorded\n")
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf(
		"Total: %s\n", ui.Yellow(stats.Total),
	))
	builder.WriteString(fmt.Sprintf(
		"Peak hour: %s\n",
		ui.Yellow(fmt.Sprintf("%02d:00", stats.PeakHour)),
	))
	builder.WriteString(fmt.Sprintf(
		"Average per active hour: %s\n",
		ui.Yellow(fmt.Sprintf("%.1f", stats.AvgPerHour)),
	))
	builder.WriteString(fmt.Sprintf(
		"Estimated time lost: %s\n",
		ui.Red(fmt.Sprintf("%.0f minutes", stats.EstMinutesLost)),
	))

	return builder.String()
}

func getWarnings(agg *models.DailyAggregate) string {
	if len(agg.Warnings) == 0 && agg.SkippedEvents == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", ui.Yellow("Warnings")))

	if agg.SkippedEvents > 0 {
		builder.WriteString(fmt.Sprintf(
			"Skipped %d malformed event(s)\n", agg.SkippedEvents,
		))
	}

	for _, w := range agg.Warnings {
		builder.WriteString(w + "\n")
	}

	return builder.String()
}

// Summary returns a one-line digest suitable for a desktop notification.
func Summary(agg *models.DailyAggregate) string {
	var deepWorkSeconds float64
	for _, b := range agg.DeepWork {
		deepWorkSeconds += b.Minutes * 60
	}

	return fmt.Sprintf(
		"%s: %s logged, %s deep work, score %.0f (%s)",
		agg.Date.Format("January 02"),
		formatSeconds(agg.TotalSeconds),
		formatSeconds(deepWorkSeconds),
		agg.Score.Overall,
		agg.Score.Rating,
	)
}

// JSON writes the aggregate as indented JSON.
func JSON(w io.Writer, agg *models.DailyAggregate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(agg)
}

// Render writes the full daily report.
func Render(w io.Writer, agg *models.DailyAggregate) error {
	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln("%s", "Daily report: "+agg.Date.Format("January 02, 2006"))

	if agg.TotalSeconds == 0 {
		_, err := fmt.Fprintln(w, header+noDataMsg)
		return err
	}

	var builder strings.Builder

	builder.WriteString(header)
	builder.WriteString(getSummary(agg))
	builder.WriteString(getBreakdown("Categories", agg.ByCategory))
	builder.WriteString(getBreakdown("Projects", agg.ByProject))
	builder.WriteString(getBreakdown("Applications", agg.ByApp))
	builder.WriteString(getHourlyChart(agg.Hourly))
	builder.WriteString(getDeepWork(agg.DeepWork))
	builder.WriteString(getInterruptions(agg.Interruptions))
	builder.WriteString(getWarnings(agg))

	_, err := fmt.Fprintln(w, builder.String())

	return err
}
