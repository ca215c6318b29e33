// Package trash lists, erases and recovers archived notes.
package trash

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuchigta/mdsticker/internal/host"
	"github.com/fuchigta/mdsticker/internal/note"
)

// Store is the subset of the record store the trash view works on
type Store interface {
	ListArchived(ctx context.Context) ([]note.Note, error)
	Restore(ctx context.Context, ids []string) ([]note.Note, error)
	DeletePermanently(ctx context.Context, ids []string) (int64, error)
}

// Indexer receives notes that become live again
type Indexer interface {
	IndexNote(n note.Note) error
}

// Manager handles batch operations over archived notes
type Manager struct {
	store Store
	host  host.Host
	index Indexer
	log   zerolog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithIndexer re-indexes recovered notes into idx
func WithIndexer(idx Indexer) Option {
	return func(m *Manager) { m.index = idx }
}

// New creates a trash manager
func New(store Store, h host.Host, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		host:  h,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// List returns the archived notes ordered by id
func (m *Manager) List(ctx context.Context) ([]note.Note, error) {
	return m.store.ListArchived(ctx)
}

// Delete erases the selected archived notes. No window is touched since
// archived notes have none.
func (m *Manager) Delete(ctx context.Context, ids []string) (int64, error) {
	deleted, err := m.store.DeletePermanently(ctx, ids)
	if err != nil {
		return 0, err
	}
	m.log.Info().Strs("notes", ids).Int64("deleted", deleted).Msg("erased notes")
	return deleted, nil
}

// Result holds the outcome of a recovery
type Result struct {
	Restored []note.Note
	Reopened []string
	Duration time.Duration
}

// Recover un-archives the selected notes in one transaction, then reopens a
// window for each at its stored geometry and pin state. The store change is
// committed before any window opens: a window failure stops the loop and is
// returned with the partial Result, and every restored note stays live.
func (m *Manager) Recover(ctx context.Context, ids []string) (*Result, error) {
	start := time.Now()

	restored, err := m.store.Restore(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &Result{Restored: restored, Reopened: []string{}}

	for _, n := range restored {
		m.indexNote(n)
	}

	for _, n := range restored {
		if _, err := m.host.OpenWindow(ctx, host.OptionsFor(n)); err != nil {
			result.Duration = time.Since(start)
			m.log.Error().
				Err(err).
				Str("note", n.ID).
				Int("reopened", len(result.Reopened)).
				Int("restored", len(restored)).
				Msg("failed to reopen recovered note")
			return result, host.Wrap("open", n.ID, err)
		}
		result.Reopened = append(result.Reopened, n.ID)
	}

	result.Duration = time.Since(start)
	m.log.Info().
		Int("restored", len(restored)).
		Dur("duration", result.Duration).
		Msg("recovered notes")

	return result, nil
}

func (m *Manager) indexNote(n note.Note) {
	if m.index == nil {
		return
	}
	if err := m.index.IndexNote(n); err != nil {
		m.log.Warn().Err(err).Str("note", n.ID).Msg("failed to index note")
	}
}
