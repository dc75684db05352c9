// Package flow implements the screen-level state machine of the signing
// device.
//
// A Dispatcher owns exactly one active Flow. It forwards timer ticks and
// user input to that flow and performs every switch between flows. Flows
// never reach into each other: a handler returns an Outcome, and a
// Transition outcome is the only way to ask for another flow.
//
// The set of flows is closed. Each one implements Flow, and NewFlow switches
// over every ID, so adding an ID without a flow fails the exhaustiveness
// test rather than a runtime lookup.
package flow

import (
	"fmt"
	"log/slog"

	"github.com/h0rv/nanoui/internal/bridge"
	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/screen"
)

// ID names a flow.
type ID int

const (
	MainMenu ID = iota
	GeneratingAddresses
	Signing
	UserConfirm
	SignedSuccessfully
)

// IDs lists every flow in declaration order.
var IDs = []ID{MainMenu, GeneratingAddresses, Signing, UserConfirm, SignedSuccessfully}

func (id ID) String() string {
	switch id {
	case MainMenu:
		return "MainMenu"
	case GeneratingAddresses:
		return "GeneratingAddresses"
	case Signing:
		return "Signing"
	case UserConfirm:
		return "UserConfirm"
	case SignedSuccessfully:
		return "SignedSuccessfully"
	default:
		return fmt.Sprintf("ID(%d)", int(id))
	}
}

// Event is a discrete user action reported by the input source.
type Event int

const (
	Up Event = iota
	Down
	Confirm
	Cancel
)

// Events lists every input event.
var Events = []Event{Up, Down, Confirm, Cancel}

func (e Event) String() string {
	switch e {
	case Up:
		return "up"
	case Down:
		return "down"
	case Confirm:
		return "confirm"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// OutcomeKind is what a handler asks the dispatcher to do next.
type OutcomeKind int

const (
	KindContinue   OutcomeKind = iota // Nothing changed
	KindRedraw                        // The flow's screen changed
	KindTransition                    // Switch to Target with Payload
)

// Outcome is returned by Tick and Input.
type Outcome struct {
	Kind    OutcomeKind
	Target  ID
	Payload any
}

// Continue reports that nothing changed.
func Continue() Outcome { return Outcome{Kind: KindContinue} }

// Redraw asks the dispatcher to render the flow's current screen.
func Redraw() Outcome { return Outcome{Kind: KindRedraw} }

// Transition requests a switch to target carrying payload.
func Transition(target ID, payload any) Outcome {
	return Outcome{Kind: KindTransition, Target: target, Payload: payload}
}

// Flow is the capability set every screen-level state machine implements.
//
// Enter must validate its payload before any side effect. It returns a
// *PayloadError when the payload has the wrong type. Exit must be safe to
// call after a failed Enter and must release any pending operation.
type Flow interface {
	ID() ID
	Enter(payload any) error
	Tick() Outcome
	Input(ev Event) Outcome
	Exit()
	Screen() screen.Screen

	sealed()
}

// Bridge starts and observes the asynchronous operations flows depend on.
// Poll must not block. Cancel must be idempotent and guarantees that no
// completion for the handle is observed afterwards.
type Bridge interface {
	StartAddressGeneration(count int) bridge.Handle
	StartSigning(tx domain.Transaction) bridge.Handle
	Poll(h bridge.Handle) bridge.Result
	Cancel(h bridge.Handle)
}

// Renderer draws a screen descriptor.
type Renderer interface {
	Draw(s screen.Screen)
}

// Store is the device data the flows read and record into.
type Store interface {
	Peek() (domain.Transaction, bool)
	Pending() int
	RecordAddresses(set domain.AddressSet)
	RecordSigned(signed domain.SignedTransaction) error
}

// Settings tunes flow behavior.
type Settings struct {
	SuccessTimeoutTicks int // Ticks before SignedSuccessfully returns to the menu
	AddressCount        int // Addresses derived per generation
	Version             string
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		SuccessTimeoutTicks: 20,
		AddressCount:        3,
		Version:             "dev",
	}
}

// Deps are the collaborators shared by every flow.
type Deps struct {
	Bridge   Bridge
	Renderer Renderer
	Store    Store
	Settings Settings
	Logger   *slog.Logger
}

// Factory builds the flow for an ID. Tests substitute it to install
// deliberately malformed flows.
type Factory func(id ID, deps Deps) Flow

// NewFlow is the default Factory.
func NewFlow(id ID, deps Deps) Flow {
	switch id {
	case MainMenu:
		return newMainMenu(deps)
	case GeneratingAddresses:
		return newGeneratingAddresses(deps)
	case Signing:
		return newSigning(deps)
	case UserConfirm:
		return newUserConfirm(deps)
	case SignedSuccessfully:
		return newSignedSuccessfully(deps)
	}
	return nil
}
