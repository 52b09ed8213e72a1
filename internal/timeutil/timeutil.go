// Package timeutil provides utility functions for working with report
// time ranges and day/hour boundaries.
package timeutil

import (
	"math"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const (
	HoursInADay     = 24
	SecondsInAnHour = 3600
)

// Round rounds a time value in seconds, minutes, or hours to the nearest
// integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		int(time.Second-time.Nanosecond),
		t.Location(),
	)
}

// NextMidnight returns the first instant of the day after t.
func NextMidnight(t time.Time) time.Time {
	return RoundToStart(t).AddDate(0, 0, 1)
}

// HourStart truncates t to the start of its wall clock hour.
func HourStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		t.Hour(),
		0,
		0,
		0,
		t.Location(),
	)
}

// NextHour returns the start of the hour following t.
func NextHour(t time.Time) time.Time {
	return HourStart(t).Add(time.Hour)
}

// FromStr parses a natural language or formatted date string.
func FromStr(str string) (time.Time, error) {
	d, err := dateparser.Parse(&dateparser.Configuration{
		CurrentTime: time.Now(),
	}, str)
	if err != nil {
		return time.Time{}, err
	}

	return d.Time, nil
}

// keyFormat is RFC 3339 with fixed-width nanoseconds so that the byte
// order of keys matches chronological order.
const keyFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyFormat))
}
