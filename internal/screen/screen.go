// Package screen defines the descriptor a flow hands to the render target.
package screen

// Kind tells the render target how to lay out a screen.
type Kind int

const (
	KindMenu     Kind = iota // Selectable list of items
	KindPaged                // One page of a multi-page review
	KindProgress             // Busy indicator while an operation runs
	KindResult               // Outcome of an operation
)

// Screen is an immutable description of one frame.
type Screen struct {
	Kind     Kind
	Title    string
	Lines    []string // Body lines, wrapped by the render target
	Selected int      // Highlighted line for KindMenu, -1 for none
	Page     int      // Zero-based page for KindPaged
	Pages    int      // Total pages for KindPaged
	Busy     bool     // An operation is in flight
	Frame    int      // Animation frame counter for KindProgress
	Status   string   // Optional status line below the body
	Hint     string   // Button hint (e.g., "confirm / cancel")
}

// Equal reports whether two screens would render identically.
func (s Screen) Equal(o Screen) bool {
	if s.Kind != o.Kind || s.Title != o.Title || s.Selected != o.Selected ||
		s.Page != o.Page || s.Pages != o.Pages || s.Busy != o.Busy ||
		s.Frame != o.Frame || s.Status != o.Status || s.Hint != o.Hint ||
		len(s.Lines) != len(o.Lines) {
		return false
	}
	for i := range s.Lines {
		if s.Lines[i] != o.Lines[i] {
			return false
		}
	}
	return true
}
