package flow

import (
	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/screen"
)

// ConfirmedTransaction is a transaction the user explicitly approved on the
// review screens. Only userConfirm marks one as approved; Signing rejects
// any other value, including the zero value built outside this package.
type ConfirmedTransaction struct {
	tx       domain.Transaction
	approved bool
}

// Transaction returns the approved transaction.
func (c ConfirmedTransaction) Transaction() domain.Transaction { return c.tx }

type reviewPage int

const (
	pageAmount reviewPage = iota
	pageDestination
	pageFee
	pageReview
	pageCount
)

var pageTitles = [pageCount]string{
	pageAmount:      "Amount",
	pageDestination: "Destination",
	pageFee:         "Fee",
	pageReview:      "Approve?",
}

// userConfirm pages through the details of a signing request. Confirm
// approves, Cancel rejects.
type userConfirm struct {
	deps Deps
	tx   domain.Transaction
	page reviewPage
}

func newUserConfirm(deps Deps) *userConfirm {
	return &userConfirm{deps: deps}
}

func (u *userConfirm) ID() ID  { return UserConfirm }
func (u *userConfirm) sealed() {}

func (u *userConfirm) Enter(payload any) error {
	tx, ok := payload.(domain.Transaction)
	if !ok {
		return &PayloadError{Flow: UserConfirm, Got: payload}
	}
	u.tx = tx
	u.page = pageAmount
	return nil
}

func (u *userConfirm) Tick() Outcome { return Continue() }

func (u *userConfirm) Input(ev Event) Outcome {
	switch ev {
	case Up:
		if u.page == pageAmount {
			return Continue()
		}
		u.page--
		return Redraw()
	case Down:
		if u.page == pageReview {
			return Continue()
		}
		u.page++
		return Redraw()
	case Confirm:
		return Transition(Signing, ConfirmedTransaction{tx: u.tx, approved: true})
	case Cancel:
		return Transition(MainMenu, nil)
	}
	return Continue()
}

func (u *userConfirm) Exit() {}

func (u *userConfirm) Screen() screen.Screen {
	var lines []string
	switch u.page {
	case pageAmount:
		lines = []string{u.tx.FormatAmount()}
	case pageDestination:
		lines = []string{u.tx.Destination}
	case pageFee:
		lines = []string{u.tx.FormatFee()}
	case pageReview:
		lines = []string{"Send " + u.tx.FormatAmount(), "to " + u.tx.Destination}
		if u.tx.Memo != "" {
			lines = append(lines, "memo "+u.tx.Memo)
		}
	}
	return screen.Screen{
		Kind:     screen.KindPaged,
		Title:    pageTitles[u.page],
		Lines:    lines,
		Selected: -1,
		Page:     int(u.page),
		Pages:    int(pageCount),
		Hint:     "confirm to sign, cancel to reject",
	}
}
