package interfaces

import (
	"context"
	"time"

	"github.com/campuspulse/eventstack/dto"
)

// MailboxClient is one authenticated IMAP session.
type MailboxClient interface {
	// SearchUIDs lists message UIDs whose subject or body contains any
	// keyword and whose date is on or after since.
	SearchUIDs(ctx context.Context, keywords []string, since time.Time) ([]string, error)
	// FetchMessages retrieves full bodies and attachments for the given
	// UIDs, newest first.
	FetchMessages(ctx context.Context, uids []string) ([]*dto.InboundMessage, error)
	Logout() error
}

// MailboxDialer opens mailbox sessions. A dial failure is the only
// fatal error of a pipeline run.
type MailboxDialer interface {
	Connect(ctx context.Context) (MailboxClient, error)
}
