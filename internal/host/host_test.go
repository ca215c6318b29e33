package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuchigta/mdsticker/internal/note"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("open", "a", nil))

	cause := errors.New("webview crashed")
	err := Wrap("open", "a", cause)
	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "open window a: webview crashed")

	// Already-wrapped errors keep their original operation.
	assert.Same(t, err, Wrap("close", "b", err))
}

func TestOptionsFor(t *testing.T) {
	n := note.Note{ID: "a", X: -5, Y: 7, Width: 300, Height: 200, Pinned: true}
	opts := OptionsFor(n)

	assert.Equal(t, "a", opts.ID)
	if assert.NotNil(t, opts.Position) {
		assert.Equal(t, note.Position{X: -5, Y: 7}, *opts.Position)
	}
	assert.Equal(t, note.Size{Width: 300, Height: 200}, opts.Size)
	assert.True(t, opts.AlwaysOnTop)
}

func TestEventBuilders(t *testing.T) {
	assert.Equal(t, Event{Kind: EventMoved, WindowID: "a", X: 1, Y: 2}, Moved("a", 1, 2))
	assert.Equal(t, Event{Kind: EventResized, WindowID: "a", Width: 3, Height: 4}, Resized("a", 3, 4))
	assert.Equal(t, Event{Kind: EventCloseRequested, WindowID: "a"}, CloseRequested("a"))
}
