package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/daybook/internal/models"
	"github.com/ayoisaiah/daybook/internal/ui"
)

const noEventsMsg = "No events found for the specified day"

// eventDetail picks the most informative field for the table's detail
// column according to the event kind.
func eventDetail(ev models.RawEvent) string {
	switch ev.Kind {
	case models.KindFocusChange:
		return firstNonEmptyString(ev.Title, ev.URL)
	case models.KindIdentitySwitch:
		return ev.FromApp + " → " + ev.ToApp
	case models.KindBrowserVisit:
		return ev.URL
	case models.KindMeetingStart, models.KindMeetingEnd:
		return ev.Name
	case models.KindIdleStart:
		return fmt.Sprintf("idle for %ds", ev.IdleSeconds)
	case models.KindManualEntry:
		return firstNonEmptyString(ev.Description, ev.Name)
	default:
		return ""
	}
}

// printEventsTable prints an events table to the command-line.
func printEventsTable(
	w io.Writer,
	events []models.RawEvent,
	loc *time.Location,
) {
	tableBody := make([][]string, len(events))

	for i := range events {
		ev := events[i]

		app := ev.App
		if ev.Kind == models.KindManualEntry {
			app = ui.Cyan(ev.Category)
		}

		row := []string{
			fmt.Sprintf("%d", i+1),
			ev.Timestamp.In(loc).Format("15:04:05"),
			string(ev.Kind),
			app,
			eventDetail(ev),
		}

		tableBody[i] = row
	}

	tableBody = append([][]string{
		{"#", "TIME", "KIND", "APP", "DETAIL"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

// listEvents prints out a table of raw events.
func listEvents(events []models.RawEvent, loc *time.Location) error {
	if len(events) == 0 {
		pterm.Info.Println(noEventsMsg)
		return nil
	}

	printEventsTable(os.Stdout, events, loc)

	return nil
}
