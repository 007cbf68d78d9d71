package chatapi

import (
	"context"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
)

// ChatClient is the contract with the external chat backend: the service
// that produces conversational text and action proposals.
type ChatClient interface {
	// Open requests the opening message for a fresh conversation.
	Open(ctx context.Context) (*Message, error)

	// SendMessage sends a user-authored message and returns the
	// backend's reply.
	SendMessage(ctx context.Context, content string) (*Message, error)

	// SendActionResult reports the resolution of a pending proposal and
	// returns the backend's follow-up conversational message.
	SendActionResult(ctx context.Context, result domain.ActionResult) (*Message, error)
}
