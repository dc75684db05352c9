package tui

import "github.com/h0rv/nanoui/internal/screen"

// Target is the render target the dispatcher draws into. It keeps the
// latest screen for the Bubble Tea view and skips frames identical to the
// one shown.
type Target struct {
	current screen.Screen
	drawn   bool
	frames  int
}

// NewTarget creates an empty target.
func NewTarget() *Target {
	return &Target{}
}

// Draw records s as the current frame.
func (t *Target) Draw(s screen.Screen) {
	if t.drawn && t.current.Equal(s) {
		return
	}
	t.current = s
	t.drawn = true
	t.frames++
}

// Screen returns the current frame. ok is false until the first Draw.
func (t *Target) Screen() (s screen.Screen, ok bool) {
	return t.current, t.drawn
}

// Frames returns the number of distinct frames drawn.
func (t *Target) Frames() int {
	return t.frames
}
