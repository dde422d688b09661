package vault

import (
	"context"

	"github.com/koustreak/CloudVault/internal/errs"
	"github.com/koustreak/CloudVault/internal/transfer"
)

// IntentKind names a user action routed back from an interactive
// control (inline button, callback, …).
type IntentKind string

const (
	IntentDownload IntentKind = "download"
	IntentStream   IntentKind = "stream"
	IntentDelete   IntentKind = "delete"
)

// Intent is an explicit request record handed to the vault by callback
// routing, replacing ad hoc structurally-faked command messages.
type Intent struct {
	Kind   IntentKind
	FileID string
}

// HandleIntent dispatches an Intent to the matching lifecycle operation.
// Download intents deliver through courier; stream intents notify the
// link through notify's display channel via the returned URL.
func (v *Vault) HandleIntent(ctx context.Context, in Intent, courier Courier, notify transfer.NotifyFunc) (string, error) {
	switch in.Kind {
	case IntentDownload:
		return "", v.Deliver(ctx, in.FileID, courier, notify)
	case IntentStream:
		url, _, err := v.StreamLink(ctx, in.FileID, 0)
		return url, err
	case IntentDelete:
		return "", v.Delete(ctx, in.FileID)
	default:
		return "", errs.New(errs.ErrKindInvalidInput, "unknown intent kind")
	}
}
