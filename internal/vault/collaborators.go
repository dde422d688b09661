package vault

import (
	"context"

	"github.com/koustreak/CloudVault/internal/transfer"
)

// Courier is the messaging-side collaborator that moves bytes between
// the requester and local staging paths. The vault never talks to the
// messaging system directly.
type Courier interface {
	// DeliverIncoming fetches the requester's bytes into dest, reporting
	// its own progress through notify. It returns the path bytes were
	// written to (usually dest).
	DeliverIncoming(ctx context.Context, dest string, notify transfer.NotifyFunc) (string, error)

	// DeliverOutgoing sends the completed file at path back to the
	// requester with the given caption.
	DeliverOutgoing(ctx context.Context, path, caption string) error
}

// Notifier updates a user-visible status element. Implementations must
// tolerate "unchanged" and rate-limit outcomes: return *transfer.RetryAfter
// to pause delivery, any other error to drop one update.
type Notifier interface {
	Notify(text string) error
}

// ProgressNotifier adapts a Notifier into a transfer.NotifyFunc that
// renders each sample as status text under the given action line.
func ProgressNotifier(n Notifier, action string) transfer.NotifyFunc {
	if n == nil {
		return nil
	}
	return func(p transfer.Progress) error {
		return n.Notify(transfer.RenderProgress(action, p))
	}
}
