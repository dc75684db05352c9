package flow

import (
	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/screen"
)

// signedSuccessfully shows the signature and returns to the menu after a
// fixed number of ticks or on any input.
type signedSuccessfully struct {
	deps    Deps
	signed  domain.SignedTransaction
	ticks   int
	timeout int
}

func newSignedSuccessfully(deps Deps) *signedSuccessfully {
	timeout := deps.Settings.SuccessTimeoutTicks
	if timeout <= 0 {
		timeout = DefaultSettings().SuccessTimeoutTicks
	}
	return &signedSuccessfully{deps: deps, timeout: timeout}
}

func (s *signedSuccessfully) ID() ID  { return SignedSuccessfully }
func (s *signedSuccessfully) sealed() {}

func (s *signedSuccessfully) Enter(payload any) error {
	signed, ok := payload.(domain.SignedTransaction)
	if !ok {
		return &PayloadError{Flow: SignedSuccessfully, Got: payload}
	}
	s.signed = signed
	return nil
}

func (s *signedSuccessfully) Tick() Outcome {
	s.ticks++
	if s.ticks == s.timeout {
		return Transition(MainMenu, nil)
	}
	return Continue()
}

func (s *signedSuccessfully) Input(Event) Outcome {
	return Transition(MainMenu, nil)
}

func (s *signedSuccessfully) Exit() {}

func (s *signedSuccessfully) Screen() screen.Screen {
	return screen.Screen{
		Kind:  screen.KindResult,
		Title: "Signed",
		Lines: []string{
			s.signed.Transaction.FormatAmount(),
			"txid " + s.signed.TxID,
			"sig " + s.signed.SignaturePrefix(16),
		},
		Selected: -1,
		Hint:     "any key to continue",
	}
}
