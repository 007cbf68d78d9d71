package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	plugins "github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/application"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/chatapi"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/store"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared/audit"
)

// ErrInFlight indicates a confirm/cancel for this proposal is already
// running; the repeat request is ignored.
var ErrInFlight = errors.New("proposal resolution already in flight")

// Conversation is the narrow view of the chat session the coordinator
// needs: applying the backend's follow-up message (which may itself carry
// new proposals).
type Conversation interface {
	ApplyMessage(ctx context.Context, msg *chatapi.Message)
}

// Coordinator implements the confirm/cancel handshake between a pending
// proposal, its registered executor, and the chat backend's
// acknowledgment call.
type Coordinator struct {
	store        *store.Store
	resolver     plugins.ActionResolver
	chat         chatapi.ChatClient
	conversation Conversation
	notifier     Notifier
	audit        audit.EventSink
	logger       *slog.Logger

	inflight map[string]bool
	mu       sync.Mutex
}

// New creates an execution coordinator.
func New(
	proposalStore *store.Store,
	resolver plugins.ActionResolver,
	chatClient chatapi.ChatClient,
	conversation Conversation,
	notifier Notifier,
	auditSink audit.EventSink,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		store:        proposalStore,
		resolver:     resolver,
		chat:         chatClient,
		conversation: conversation,
		notifier:     notifier,
		audit:        auditSink,
		logger:       logger,
		inflight:     make(map[string]bool),
	}
}

// Confirm runs the registered executor for a pending proposal with the
// user-supplied form data and, on success, reports the resolution to the
// chat backend and removes the proposal. An executor failure leaves the
// proposal pending for retry and contacts nobody.
func (c *Coordinator) Confirm(ctx context.Context, proposalID string, form domain.FormData) error {
	release, err := c.acquire(proposalID)
	if err != nil {
		return err
	}
	defer release()

	started := time.Now()

	proposal, ok := c.store.Get(proposalID)
	if !ok {
		// Confirming an id that is not pending is a no-op: no crash,
		// no network call.
		return domain.ErrProposalNotFound
	}

	action, ok := c.resolver.Resolve(proposal.Kind)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownAction, proposal.Kind)
	}
	if !action.IsExecutable() || !proposal.ExecutionMode.RequiresConfirmation() {
		return fmt.Errorf("%w: %s", domain.ErrNotExecutable, proposal.Kind)
	}

	if err := action.Execute(ctx, proposal, form); err != nil {
		c.logger.Error("Executor failed, proposal stays pending",
			"proposal_id", proposalID,
			"kind", proposal.Kind.String(),
			"error", err)
		c.notifier.Error(fmt.Sprintf("%s failed: %v", action.Title, err))
		c.recordResolution(ctx, proposal, "confirmed", "failed", err, time.Since(started))
		return fmt.Errorf("executor failed for %s: %w", proposal.Kind, err)
	}

	// The mutation has happened; from here on the proposal is resolved
	// locally no matter how the acknowledgment round trip goes, because
	// retrying would re-run the executor.
	msg, err := c.chat.SendActionResult(ctx, domain.ConfirmedResult(proposalID, nil))
	if err != nil {
		c.logger.Error("Confirmation call failed after successful execution",
			"proposal_id", proposalID,
			"error", err)
		c.notifier.Error(fmt.Sprintf("%s succeeded, but the conversation could not be updated", action.Title))
	} else {
		c.conversation.ApplyMessage(ctx, msg)
	}

	c.store.RemoveByID(ctx, proposalID)
	c.notifier.Success(fmt.Sprintf("%s completed", action.Title))
	c.recordResolution(ctx, proposal, "confirmed", "ok", nil, time.Since(started))

	c.logger.Info("Proposal confirmed",
		"proposal_id", proposalID,
		"kind", proposal.Kind.String())
	return nil
}

// Cancel resolves a pending proposal as dismissed. The backend is told
// best-effort: even if the acknowledgment fails, the proposal is removed
// locally, honouring the user's intent to dismiss.
func (c *Coordinator) Cancel(ctx context.Context, proposalID string) error {
	release, err := c.acquire(proposalID)
	if err != nil {
		return err
	}
	defer release()

	proposal, ok := c.store.Get(proposalID)
	if !ok {
		return domain.ErrProposalNotFound
	}

	msg, err := c.chat.SendActionResult(ctx, domain.CancelledResult(proposalID))
	if err != nil {
		c.logger.Warn("Cancellation acknowledgment failed, removing proposal anyway",
			"proposal_id", proposalID,
			"error", err)
	} else {
		c.conversation.ApplyMessage(ctx, msg)
	}

	c.store.RemoveByID(ctx, proposalID)
	c.recordResolution(ctx, proposal, "cancelled", "ok", nil, 0)

	c.logger.Info("Proposal cancelled",
		"proposal_id", proposalID,
		"kind", proposal.Kind.String())
	return nil
}

func (c *Coordinator) recordResolution(ctx context.Context, proposal *domain.Proposal, resolution, outcome string, cause error, elapsed time.Duration) {
	event := audit.Event{
		Timestamp:  time.Now(),
		ProposalID: proposal.ProposalID,
		Kind:       proposal.Kind.String(),
		Resolution: resolution,
		Outcome:    outcome,
		Duration:   elapsed,
	}
	if cause != nil {
		event.ErrorMessage = cause.Error()
	}
	if err := c.audit.Record(ctx, event); err != nil {
		c.logger.Warn("Failed to record audit event", "proposal_id", proposal.ProposalID, "error", err)
	}
}

// acquire marks a proposal as in flight. The guard is per proposal id:
// two different pending proposals resolve concurrently without
// interference, but repeat requests for the same id are rejected until
// the first one settles.
func (c *Coordinator) acquire(proposalID string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[proposalID] {
		return nil, fmt.Errorf("%w: %s", ErrInFlight, proposalID)
	}
	c.inflight[proposalID] = true

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.inflight, proposalID)
	}, nil
}
