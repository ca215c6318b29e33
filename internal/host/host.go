// Package host defines the boundary with the windowing/webview runtime that
// displays notes. The runtime raises window events and executes window
// commands; it never touches the store directly.
package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/fuchigta/mdsticker/internal/note"
)

// ErrOperationFailed marks a window command the host could not carry out.
var ErrOperationFailed = errors.New("host operation failed")

// Host executes window commands. The window id is always the note id.
type Host interface {
	// OpenWindow opens a note window and returns the geometry the host
	// actually applied, which may differ from the request after clamping to
	// the screen.
	OpenWindow(ctx context.Context, opts WindowOptions) (note.Geometry, error)
	CloseWindow(ctx context.Context, id string) error
	SetAlwaysOnTop(ctx context.Context, id string, on bool) error
	// Notify sends a named event to another window, such as the trash view.
	Notify(ctx context.Context, windowID, event string, payload any) error
}

// WindowOptions describes a window to open. A nil Position lets the host
// choose where to place it.
type WindowOptions struct {
	ID          string
	Position    *note.Position
	Size        note.Size
	AlwaysOnTop bool
}

// OptionsFor returns the options that reopen n where it was last seen.
func OptionsFor(n note.Note) WindowOptions {
	g := n.Geometry()
	return WindowOptions{
		ID:          n.ID,
		Position:    &g.Position,
		Size:        g.Size,
		AlwaysOnTop: n.Pinned,
	}
}

// Error is a failed window command.
type Error struct {
	Op       string
	WindowID string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s window %s: %v", e.Op, e.WindowID, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrOperationFailed, e.Err}
}

// Wrap reports err as a failed host operation on windowID. It returns nil if
// err is nil and leaves existing host errors untouched.
func Wrap(op, windowID string, err error) error {
	if err == nil {
		return nil
	}
	var hostErr *Error
	if errors.As(err, &hostErr) {
		return err
	}
	return &Error{Op: op, WindowID: windowID, Err: err}
}
