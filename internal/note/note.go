package note

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Note is a sticky note record. It is the unit persisted by the store and
// handed to the host for rendering.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"` // Markdown
	Color     string    `json:"color"`   // #rrggbb
	X         int       `json:"pos_x"`
	Y         int       `json:"pos_y"`
	Width     uint      `json:"width"`
	Height    uint      `json:"height"`
	Pinned    bool      `json:"pinned"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Position is a window's top-left corner in screen coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window's outer size.
type Size struct {
	Width  uint `json:"width"`
	Height uint `json:"height"`
}

// Geometry is the on-screen placement of a note window.
type Geometry struct {
	Position
	Size
}

var colorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// New returns a live note with the default field values: empty content, a
// random color, unpinned.
func New(id string, g Geometry) Note {
	return Note{
		ID:     id,
		Color:  RandomColor(),
		X:      g.X,
		Y:      g.Y,
		Width:  g.Width,
		Height: g.Height,
	}
}

// NewID allocates a note identifier. UUIDv7 keeps id order close to creation
// order, which is the order windows are reopened in.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate note id: %w", err)
	}
	return id.String(), nil
}

// RandomColor returns a uniformly sampled RGB color as #rrggbb.
func RandomColor() string {
	return fmt.Sprintf("#%02x%02x%02x", rand.Intn(256), rand.Intn(256), rand.Intn(256))
}

// ValidColor reports whether c is a lowercase #rrggbb color.
func ValidColor(c string) bool {
	return colorPattern.MatchString(c)
}

// Geometry returns the stored window placement.
func (n Note) Geometry() Geometry {
	return Geometry{
		Position: Position{X: n.X, Y: n.Y},
		Size:     Size{Width: n.Width, Height: n.Height},
	}
}

// Validate checks the fields a record must carry before it is stored.
func (n Note) Validate() error {
	if n.ID == "" {
		return errors.New("note id cannot be empty")
	}
	if !ValidColor(n.Color) {
		return fmt.Errorf("invalid color %q", n.Color)
	}
	return nil
}

// Title returns the first non-blank line of the content with markdown heading
// markers removed.
func (n Note) Title() string {
	for _, line := range strings.Split(n.Content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return ""
}
