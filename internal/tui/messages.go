// Package tui is the terminal simulator of the signing device. It owns the
// Bubble Tea program loop, feeds key presses and timer ticks to the flow
// dispatcher, and shows whatever the dispatcher last drew.
//
// Every dispatcher call happens inside Update, so the dispatcher only ever
// runs on the Bubble Tea goroutine. Commands never touch it.
package tui

import "time"

// BootMsg initializes the dispatcher. The model sends it to itself on start.
type BootMsg struct{}

// TickMsg is one device timer tick.
type TickMsg time.Time

// ErrorMsg reports an error outside the dispatcher's normal calls, such as
// a failed boot.
type ErrorMsg struct {
	Err error
}
