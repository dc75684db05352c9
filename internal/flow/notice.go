package flow

import (
	"fmt"

	"github.com/h0rv/nanoui/internal/domain"
)

// NoticeKind classifies what the menu reports after a flow hands back.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeAddresses
	NoticeFailed
	NoticeCancelled
)

// Notice is the MainMenu payload: a one-line report on the flow that just
// finished.
type Notice struct {
	Kind      NoticeKind
	Addresses domain.AddressSet
	Err       error
}

// Text renders the notice for the menu status line.
func (n Notice) Text() string {
	switch n.Kind {
	case NoticeAddresses:
		if n.Addresses.Len() == 0 {
			return "No addresses derived"
		}
		return fmt.Sprintf("%d addresses ready, first %s", n.Addresses.Len(), n.Addresses.Addresses[0].Encoded)
	case NoticeFailed:
		return "Error: " + n.Err.Error()
	case NoticeCancelled:
		return "Cancelled"
	default:
		return ""
	}
}

func failedNotice(err error) Notice {
	return Notice{Kind: NoticeFailed, Err: fmt.Errorf("%w: %w", ErrOperationFailed, err)}
}
