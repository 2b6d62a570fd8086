package journal

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/daybook-app/daybook/internal/gateway"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
)

// Collection holds the last known good entry sequence in memory and
// republishes it to every subscriber after each successful load. It is an
// explicitly owned instance with subscribe/unsubscribe lifecycle, not a
// package-level singleton.
type Collection struct {
	rows       gateway.Rows
	log        logging.Logger
	retryDelay time.Duration

	mu      sync.Mutex
	current []models.Entry
	subs    map[int]chan []models.Entry
	nextSub int
}

// NewCollection builds a collection that re-queries through rows and, on a
// failed load, retries exactly once after retryDelay.
func NewCollection(rows gateway.Rows, log logging.Logger, retryDelay time.Duration) *Collection {
	return &Collection{
		rows:       rows,
		log:        log,
		retryDelay: retryDelay,
		subs:       map[int]chan []models.Entry{},
	}
}

// entriesQuery is the one fixed read: all entries with their media rows and
// location (id, name only), newest first.
func entriesQuery() gateway.SelectQuery {
	return gateway.SelectQuery{
		Table: tableEntries,
		Joins: []gateway.Join{
			{Table: tableMediaFiles, On: columnEntryRef},
			{Table: tableLocations, On: columnEntryRef, Columns: []string{"id", "name"}},
		},
		OrderBy:    "created_at",
		Descending: true,
	}
}

// Subscribe registers a consumer of collection snapshots. The current
// snapshot is delivered immediately; afterwards every published snapshot
// follows, latest-wins if the consumer lags. The returned cancel func
// unsubscribes and closes the channel.
func (c *Collection) Subscribe() (<-chan []models.Entry, func()) {
	ch := make(chan []models.Entry, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Snapshot returns a copy of the current collection.
func (c *Collection) Snapshot() []models.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Get returns one entry from the current snapshot by id.
func (c *Collection) Get(id int64) (models.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.current {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Entry{}, &NotFoundError{Table: tableEntries, ID: id}
}

// Load re-queries the full collection, normalizes it and publishes the
// replacement snapshot. A failed query is retried exactly once after the
// fixed delay; if that also fails the previous snapshot stays published and
// the error is returned to the direct caller only.
func (c *Collection) Load(ctx context.Context) error {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(c.retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		rows, err := c.rows.Select(ctx, entriesQuery())
		if err != nil {
			c.log.Warn(ctx, "entry collection load failed", "error", err)
			return retry.RetryableError(err)
		}

		entries := make([]models.Entry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, EntryFromRow(row))
		}
		c.publish(entries)
		return nil
	})
	if err != nil {
		c.log.Error(ctx, "entry collection load failed after retry, keeping last snapshot", "error", err)
		return &PersistenceError{Op: "select", Table: tableEntries, Err: err}
	}
	return nil
}

// Reload satisfies the writer's Reloader. Load already logs its own
// failures and keeps the last good snapshot, so the error is not re-raised
// into the write path.
func (c *Collection) Reload(ctx context.Context) {
	_ = c.Load(ctx)
}

func (c *Collection) publish(entries []models.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = entries
	for _, ch := range c.subs {
		// Drop the stale snapshot so a slow consumer sees the latest.
		select {
		case <-ch:
		default:
		}
		ch <- entries
	}
}

func (c *Collection) snapshotLocked() []models.Entry {
	out := make([]models.Entry, len(c.current))
	copy(out, c.current)
	return out
}
