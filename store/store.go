// Package store connects to the data store and manages the append-only
// activity event log.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/daybook/internal/models"
	"github.com/ayoisaiah/daybook/internal/timeutil"
)

var pathToDB string

var (
	eventsBucket     = []byte("events")
	aggregatesBucket = []byte("aggregates")
)

var errDaybookRunning = errors.New(
	"is daybook already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// eventKey orders events chronologically and disambiguates records that
// share a timestamp.
func eventKey(ts time.Time, seq uint64) []byte {
	return fmt.Appendf(nil, "%s/%016x", timeutil.ToKey(ts), seq)
}

func (c *Client) AppendEvents(events ...models.RawEvent) error {
	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(eventsBucket)

		for i := range events {
			ev := events[i]

			value, err := json.Marshal(ev)
			if err != nil {
				return err
			}

			seq, err := b.NextSequence()
			if err != nil {
				return err
			}

			err = b.Put(eventKey(ev.Timestamp, seq), value)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (c *Client) GetEvents(
	startTime, endTime time.Time,
) ([]models.RawEvent, int, error) {
	var (
		events  []models.RawEvent
		skipped int
	)

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket(eventsBucket).Cursor()

		min := timeutil.ToKey(startTime)
		max := timeutil.ToKey(endTime)

		for k, v := cur.Seek(min); k != nil; k, v = cur.Next() {
			// the key prefix up to the separator is a fixed-width UTC
			// timestamp, so byte order matches chronological order
			if ts, _, _ := bytes.Cut(k, []byte("/")); bytes.Compare(ts, max) > 0 {
				break
			}

			var ev models.RawEvent

			// partially written records are skipped, never fatal
			if err := json.Unmarshal(v, &ev); err != nil {
				skipped++
				continue
			}

			events = append(events, ev)
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return events, skipped, nil
}

func (c *Client) SaveAggregate(agg *models.DailyAggregate) error {
	key := []byte(agg.Date.Format(time.DateOnly))

	value, err := json.Marshal(agg)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(aggregatesBucket).Put(key, value)
	})
}

func (c *Client) GetAggregate(day time.Time) (*models.DailyAggregate, error) {
	var agg *models.DailyAggregate

	err := c.View(func(tx *bolt.Tx) error {
		key := []byte(day.Format(time.DateOnly))

		b := tx.Bucket(aggregatesBucket).Get(key)
		if len(b) == 0 {
			return nil
		}

		agg = &models.DailyAggregate{}

		return json.Unmarshal(b, agg)
	})
	if err != nil {
		return nil, err
	}

	return agg, nil
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errDaybookRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}
	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists(eventsBucket)
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists(aggregatesBucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
