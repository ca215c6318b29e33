// Package hosttest provides an in-memory host.Host for tests.
package hosttest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/fuchigta/mdsticker/internal/host"
	"github.com/fuchigta/mdsticker/internal/note"
)

// Window is the state of one open window.
type Window struct {
	ID          string
	Geometry    note.Geometry
	AlwaysOnTop bool
}

// Notification is a recorded Notify call.
type Notification struct {
	WindowID string
	Event    string
	Payload  any
}

// Host keeps windows in a map. The exported fields inject failures and must
// be set before the host is shared between goroutines.
type Host struct {
	// Screen clamps positions into [0, Screen.Width-w] x [0, Screen.Height-h]
	// when non-zero.
	Screen note.Size
	// OpenErr, when set, is returned by OpenWindow for these ids.
	OpenErr map[string]error
	// AlwaysOnTopErr, CloseErr and NotifyErr fail every matching call.
	AlwaysOnTopErr error
	CloseErr       error
	NotifyErr      error

	mu            sync.Mutex
	windows       map[string]*Window
	opened        []string
	notifications []Notification
	cascade       int
}

// New returns an empty host with a 1920x1080 screen.
func New() *Host {
	return &Host{
		Screen:  note.Size{Width: 1920, Height: 1080},
		OpenErr: make(map[string]error),
		windows: make(map[string]*Window),
	}
}

// ErrWindowExists is returned when opening a window whose id is already open.
var ErrWindowExists = errors.New("window already exists")

// ErrNoWindow is returned for commands on a window that is not open.
var ErrNoWindow = errors.New("no such window")

func (h *Host) OpenWindow(ctx context.Context, opts host.WindowOptions) (note.Geometry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.OpenErr[opts.ID]; err != nil {
		return note.Geometry{}, err
	}
	if _, ok := h.windows[opts.ID]; ok {
		return note.Geometry{}, fmt.Errorf("open %s: %w", opts.ID, ErrWindowExists)
	}

	g := note.Geometry{Size: opts.Size}
	if opts.Position != nil {
		g.Position = *opts.Position
	} else {
		// Cascade new windows the way desktop window managers do.
		h.cascade++
		g.Position = note.Position{X: 40 * h.cascade, Y: 40 * h.cascade}
	}
	g = h.clamp(g)

	h.windows[opts.ID] = &Window{ID: opts.ID, Geometry: g, AlwaysOnTop: opts.AlwaysOnTop}
	h.opened = append(h.opened, opts.ID)
	return g, nil
}

func (h *Host) clamp(g note.Geometry) note.Geometry {
	if h.Screen.Width == 0 || h.Screen.Height == 0 {
		return g
	}
	g.Width = min(g.Width, h.Screen.Width)
	g.Height = min(g.Height, h.Screen.Height)
	g.X = max(0, min(g.X, int(h.Screen.Width-g.Width)))
	g.Y = max(0, min(g.Y, int(h.Screen.Height-g.Height)))
	return g
}

func (h *Host) CloseWindow(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.CloseErr != nil {
		return h.CloseErr
	}
	if _, ok := h.windows[id]; !ok {
		return fmt.Errorf("close %s: %w", id, ErrNoWindow)
	}
	delete(h.windows, id)
	return nil
}

func (h *Host) SetAlwaysOnTop(ctx context.Context, id string, on bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.AlwaysOnTopErr != nil {
		return h.AlwaysOnTopErr
	}
	w, ok := h.windows[id]
	if !ok {
		return fmt.Errorf("always on top %s: %w", id, ErrNoWindow)
	}
	w.AlwaysOnTop = on
	return nil
}

func (h *Host) Notify(ctx context.Context, windowID, event string, payload any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.NotifyErr != nil {
		return h.NotifyErr
	}
	h.notifications = append(h.notifications, Notification{WindowID: windowID, Event: event, Payload: payload})
	return nil
}

// Window returns a copy of the open window id.
func (h *Host) Window(id string) (Window, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// OpenIDs returns the ids of the open windows, sorted.
func (h *Host) OpenIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.windows))
	for id := range h.windows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Opened returns every id passed to a successful OpenWindow, in call order.
func (h *Host) Opened() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.opened...)
}

// Notifications returns the recorded Notify calls.
func (h *Host) Notifications() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Notification(nil), h.notifications...)
}
