package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuchigta/mdsticker/internal/host"
	"github.com/fuchigta/mdsticker/internal/note"
	"github.com/fuchigta/mdsticker/internal/storage"
)

// DefaultSize is the size requested for a new note window
var DefaultSize = note.Size{Width: 500, Height: 400}

// DefaultTrashWindow is the window label of the trash view
const DefaultTrashWindow = "trashbox"

// ReloadEvent is sent to the trash view when its listing changed
const ReloadEvent = "reload"

// ErrInvalidColor is returned when a color is not #rrggbb
var ErrInvalidColor = errors.New("invalid color")

// Store is the subset of the record store the synchronizer writes to
type Store interface {
	Create(ctx context.Context, n note.Note) (note.Note, error)
	Get(ctx context.Context, id string) (note.Note, error)
	ListLive(ctx context.Context) ([]note.Note, error)
	UpdateContent(ctx context.Context, id, content string) error
	UpdateColor(ctx context.Context, id, color string) error
	UpdatePosition(ctx context.Context, id string, x, y int) error
	UpdateSize(ctx context.Context, id string, width, height uint) error
	TogglePinned(ctx context.Context, id string) (bool, error)
	Archive(ctx context.Context, id string) error
}

// Indexer keeps a search index in step with live notes
type Indexer interface {
	IndexNote(n note.Note) error
	Delete(id string) error
}

// Synchronizer keeps note windows and note records consistent
type Synchronizer struct {
	store       Store
	host        host.Host
	index       Indexer
	log         zerolog.Logger
	defaultSize note.Size
	trashWindow string
	handlers    map[host.EventKind]eventHandler
}

type eventHandler func(ctx context.Context, ev host.Event) error

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Synchronizer) { s.log = log }
}

// WithIndexer keeps idx updated as notes are created, edited and closed
func WithIndexer(idx Indexer) Option {
	return func(s *Synchronizer) { s.index = idx }
}

// WithDefaultSize sets the size requested for new note windows
func WithDefaultSize(size note.Size) Option {
	return func(s *Synchronizer) { s.defaultSize = size }
}

// WithTrashWindow sets the label of the trash view window
func WithTrashWindow(label string) Option {
	return func(s *Synchronizer) { s.trashWindow = label }
}

// New creates a synchronizer over store and h
func New(store Store, h host.Host, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:       store,
		host:        h,
		log:         zerolog.Nop(),
		defaultSize: DefaultSize,
		trashWindow: DefaultTrashWindow,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.handlers = map[host.EventKind]eventHandler{
		host.EventMoved: func(ctx context.Context, ev host.Event) error {
			return s.store.UpdatePosition(ctx, ev.WindowID, ev.X, ev.Y)
		},
		host.EventResized: func(ctx context.Context, ev host.Event) error {
			return s.store.UpdateSize(ctx, ev.WindowID, ev.Width, ev.Height)
		},
		host.EventCloseRequested: s.handleCloseRequested,
	}

	return s
}

// Stats holds reconciliation statistics
type Stats struct {
	Live     int
	Opened   int
	Created  int
	Duration time.Duration
}

// Reconcile opens one window per live note, in id order, at its stored
// geometry and pin state. With no live notes it creates exactly one. A window
// that fails to open stops the loop; windows already opened stay open.
func (s *Synchronizer) Reconcile(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	notes, err := s.store.ListLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live notes: %w", err)
	}
	stats.Live = len(notes)

	if len(notes) == 0 {
		s.log.Info().Msg("no live notes, creating one")
		if _, err := s.CreateNote(ctx); err != nil {
			return stats, err
		}
		stats.Created = 1
		stats.Opened = 1
		stats.Duration = time.Since(start)
		return stats, nil
	}

	s.log.Info().Int("notes", len(notes)).Msg("restoring note windows")

	for _, n := range notes {
		if _, err := s.host.OpenWindow(ctx, host.OptionsFor(n)); err != nil {
			s.log.Error().Err(err).Str("note", n.ID).Msg("failed to reopen note window")
			stats.Duration = time.Since(start)
			return stats, host.Wrap("open", n.ID, err)
		}
		stats.Opened++
	}

	stats.Duration = time.Since(start)
	s.log.Info().
		Int("opened", stats.Opened).
		Dur("duration", stats.Duration).
		Msg("reconcile complete")

	return stats, nil
}

// CreateNote opens a new window and persists a note with the geometry the
// host actually gave it.
func (s *Synchronizer) CreateNote(ctx context.Context) (note.Note, error) {
	id, err := note.NewID()
	if err != nil {
		return note.Note{}, err
	}

	g, err := s.host.OpenWindow(ctx, host.WindowOptions{ID: id, Size: s.defaultSize})
	if err != nil {
		return note.Note{}, host.Wrap("open", id, err)
	}

	n, err := s.store.Create(ctx, note.New(id, g))
	if err != nil {
		// Without a record the window would vanish on the next start.
		if closeErr := s.host.CloseWindow(ctx, id); closeErr != nil {
			s.log.Warn().Err(closeErr).Str("note", id).Msg("failed to close unsaved note window")
		}
		return note.Note{}, err
	}

	s.indexNote(n)
	s.log.Info().Str("note", id).Int("x", g.X).Int("y", g.Y).Msg("created note")
	return n, nil
}

// CloseNote moves a note to the trash and closes its window.
func (s *Synchronizer) CloseNote(ctx context.Context, id string) error {
	if err := s.store.Archive(ctx, id); err != nil {
		return err
	}
	s.unindexNote(id)

	closeErr := s.host.CloseWindow(ctx, id)
	if closeErr != nil {
		s.log.Error().Err(closeErr).Str("note", id).Msg("failed to close note window")
	}

	s.notifyTrash(ctx)
	s.log.Info().Str("note", id).Msg("archived note")

	return host.Wrap("close", id, closeErr)
}

func (s *Synchronizer) handleCloseRequested(ctx context.Context, ev host.Event) error {
	n, err := s.store.Get(ctx, ev.WindowID)
	if errors.Is(err, storage.ErrNotFound) {
		// Not a note window, e.g. the trash view.
		return nil
	}
	if err != nil {
		return err
	}
	if n.Archived {
		// An earlier close archived the note but left its window open.
		return host.Wrap("close", n.ID, s.host.CloseWindow(ctx, n.ID))
	}
	return s.CloseNote(ctx, n.ID)
}

// HandleEvent applies one host window event. Events for windows without a
// record change nothing.
func (s *Synchronizer) HandleEvent(ctx context.Context, ev host.Event) error {
	handler, ok := s.handlers[ev.Kind]
	if !ok {
		return fmt.Errorf("unknown window event %q", ev.Kind)
	}

	s.log.Debug().
		Str("event", string(ev.Kind)).
		Str("window", ev.WindowID).
		Int("x", ev.X).Int("y", ev.Y).
		Uint("width", ev.Width).Uint("height", ev.Height).
		Msg("window event")

	return handler(ctx, ev)
}

// TogglePinned flips the pin state of a note and applies it to its window.
// If the store update fails the window is not touched. If the window cannot
// be updated the store change is reverted so both keep agreeing. The returned
// value is always the state left in the store.
func (s *Synchronizer) TogglePinned(ctx context.Context, id string) (bool, error) {
	pinned, err := s.store.TogglePinned(ctx, id)
	if err != nil {
		return false, err
	}

	if err := s.host.SetAlwaysOnTop(ctx, id, pinned); err != nil {
		hostErr := host.Wrap("set always on top", id, err)
		if _, revertErr := s.store.TogglePinned(ctx, id); revertErr != nil {
			s.log.Error().Err(revertErr).Str("note", id).Msg("failed to revert pin state")
			return pinned, errors.Join(hostErr, revertErr)
		}
		return !pinned, hostErr
	}

	return pinned, nil
}

// SaveContent stores new markdown for a note
func (s *Synchronizer) SaveContent(ctx context.Context, id, content string) error {
	if err := s.store.UpdateContent(ctx, id, content); err != nil {
		return err
	}
	s.reindex(ctx, id)
	return nil
}

// SaveColor stores a new #rrggbb color for a note
func (s *Synchronizer) SaveColor(ctx context.Context, id, color string) error {
	if !note.ValidColor(color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	if err := s.store.UpdateColor(ctx, id, color); err != nil {
		return err
	}
	s.reindex(ctx, id)
	return nil
}

// LoadNote returns the record behind a window
func (s *Synchronizer) LoadNote(ctx context.Context, id string) (note.Note, error) {
	return s.store.Get(ctx, id)
}

// notifyTrash asks an open trash view to reload. Failures are logged and
// otherwise ignored.
func (s *Synchronizer) notifyTrash(ctx context.Context) {
	if err := s.host.Notify(ctx, s.trashWindow, ReloadEvent, nil); err != nil {
		s.log.Debug().Err(err).Str("window", s.trashWindow).Msg("trash view not notified")
	}
}

func (s *Synchronizer) reindex(ctx context.Context, id string) {
	if s.index == nil {
		return
	}
	n, err := s.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Str("note", id).Msg("failed to load note for indexing")
		}
		return
	}
	s.indexNote(n)
}

func (s *Synchronizer) indexNote(n note.Note) {
	if s.index == nil || n.Archived {
		return
	}
	if err := s.index.IndexNote(n); err != nil {
		s.log.Warn().Err(err).Str("note", n.ID).Msg("failed to index note")
	}
}

func (s *Synchronizer) unindexNote(id string) {
	if s.index == nil {
		return
	}
	if err := s.index.Delete(id); err != nil {
		s.log.Warn().Err(err).Str("note", id).Msg("failed to remove note from index")
	}
}
