package store

import (
	"time"

	"github.com/ayoisaiah/daybook/internal/models"
)

// DB is the event log storage interface.
type DB interface {
	// AppendEvents persists one or more raw events to the log
	AppendEvents(events ...models.RawEvent) error
	// GetEvents returns events recorded within the time bounds together
	// with the number of records that could not be decoded
	GetEvents(startTime, endTime time.Time) ([]models.RawEvent, int, error)
	// SaveAggregate stores a computed daily aggregate
	SaveAggregate(agg *models.DailyAggregate) error
	// GetAggregate returns a previously stored aggregate for the day, if any
	GetAggregate(day time.Time) (*models.DailyAggregate, error)
	// Close ends the database connection
	Close() error
	// Open begins a database connection
	Open() error
}
