package host

// EventKind identifies a window lifecycle event raised by the host
type EventKind string

const (
	EventMoved          EventKind = "moved"
	EventResized        EventKind = "resized"
	EventCloseRequested EventKind = "close_requested"
)

// Event is a window lifecycle event. X/Y are set for EventMoved, Width/Height
// for EventResized.
type Event struct {
	Kind     EventKind `json:"kind"`
	WindowID string    `json:"window_id"`
	X        int       `json:"x,omitempty"`
	Y        int       `json:"y,omitempty"`
	Width    uint      `json:"width,omitempty"`
	Height   uint      `json:"height,omitempty"`
}

// Moved builds an EventMoved
func Moved(id string, x, y int) Event {
	return Event{Kind: EventMoved, WindowID: id, X: x, Y: y}
}

// Resized builds an EventResized
func Resized(id string, width, height uint) Event {
	return Event{Kind: EventResized, WindowID: id, Width: width, Height: height}
}

// CloseRequested builds an EventCloseRequested
func CloseRequested(id string) Event {
	return Event{Kind: EventCloseRequested, WindowID: id}
}
