package cli

import (
	"bufio"
	"context"
	"os"
	"sync"

	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/journal"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
)

// App is the interactive daybook client. It subscribes once to the entry
// collection stream and renders whatever the stream last published.
type App struct {
	config     *config.Config
	writer     *journal.AggregateWriter
	collection *journal.Collection
	log        logging.Logger
	reader     *bufio.Reader

	mu      sync.Mutex
	entries []models.Entry
}

// NewApp wires the REPL to the journal core.
func NewApp(c *config.Config, writer *journal.AggregateWriter, collection *journal.Collection, log logging.Logger) *App {
	return &App{
		config:     c,
		writer:     writer,
		collection: collection,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
	}
}

// Run consumes the collection stream in the background and drives the
// command loop until exit or context cancellation.
func (a *App) Run(ctx context.Context) {
	snapshots, cancel := a.collection.Subscribe()
	defer cancel()

	go func() {
		for entries := range snapshots {
			a.mu.Lock()
			a.entries = entries
			a.mu.Unlock()
		}
	}()

	a.Root(ctx)
}

func (a *App) latest() []models.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries
}
