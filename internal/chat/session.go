package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/chatapi"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/store"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared"
)

// FocusView names the view the operator UI should show.
type FocusView string

const (
	ViewPreview        FocusView = "preview"
	ViewPendingActions FocusView = "pending-actions"
)

// Session drives the conversation with the chat backend: it owns the
// transcript, routes backend-emitted proposals into the pending store,
// and tracks which view should have focus. Proposals are scoped to the
// session; starting a new chat clears both.
type Session struct {
	client   chatapi.ChatClient
	store    *store.Store
	business *shared.BusinessContext
	logger   *slog.Logger

	transcript     []chatapi.Message
	focus          FocusView
	previewContext map[string]any
	mu             sync.Mutex
}

// NewSession creates a session controller over the given backend client
// and pending-proposal store.
func NewSession(client chatapi.ChatClient, proposalStore *store.Store, business *shared.BusinessContext, logger *slog.Logger) *Session {
	return &Session{
		client:   client,
		store:    proposalStore,
		business: business,
		logger:   logger,
		focus:    ViewPreview,
	}
}

// Start rehydrates previously persisted proposals and requests the
// opening message. A non-empty rehydrated set moves focus to the
// pending-actions view before the backend is even contacted.
func (s *Session) Start(ctx context.Context) error {
	if count := s.store.Rehydrate(ctx); count > 0 {
		s.mu.Lock()
		s.focus = ViewPendingActions
		s.mu.Unlock()
		s.logger.Info("Restored pending proposals from previous session", "count", count)
	}

	msg, err := s.client.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open conversation: %w", err)
	}
	s.ApplyMessage(ctx, msg)
	return nil
}

// Send forwards a user-authored message and applies the backend's reply.
func (s *Session) Send(ctx context.Context, content string) (*chatapi.Message, error) {
	s.mu.Lock()
	s.transcript = append(s.transcript, chatapi.Message{Role: "user", Content: content})
	s.mu.Unlock()

	msg, err := s.client.SendMessage(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	s.ApplyMessage(ctx, msg)
	return msg, nil
}

// NewChat clears the transcript and the pending store (including the
// durable blob) and requests a fresh opening message.
func (s *Session) NewChat(ctx context.Context) error {
	s.mu.Lock()
	s.transcript = nil
	s.previewContext = nil
	s.focus = ViewPreview
	s.mu.Unlock()

	s.store.Clear(ctx)

	msg, err := s.client.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open conversation: %w", err)
	}
	s.ApplyMessage(ctx, msg)
	return nil
}

// ApplyMessage appends a backend message to the transcript and enqueues
// any proposals it carries. This is the single enqueue path, shared by
// Start/Send and by the coordinator's post-resolution follow-ups.
func (s *Session) ApplyMessage(ctx context.Context, msg *chatapi.Message) {
	if msg == nil {
		return
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, *msg)
	if msg.PreviewContext != nil {
		s.previewContext = msg.PreviewContext
	}
	s.mu.Unlock()

	if !msg.HasProposals() {
		return
	}

	proposals := make([]*domain.Proposal, 0, len(msg.Proposals))
	for _, raw := range msg.Proposals {
		p, err := domain.ParseProposal(raw)
		if err != nil {
			// A malformed proposal is dropped before it can become
			// pending; the rest of the message is unaffected.
			s.logger.Warn("Dropping invalid proposal from backend", "error", err)
			continue
		}
		proposals = append(proposals, p)
	}

	if len(proposals) == 0 {
		return
	}

	s.store.Append(ctx, proposals)

	s.mu.Lock()
	s.focus = ViewPendingActions
	s.mu.Unlock()

	s.logger.Debug("Proposals enqueued", "count", len(proposals))
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []chatapi.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chatapi.Message(nil), s.transcript...)
}

// Focus returns the view that should currently have focus.
func (s *Session) Focus() FocusView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// SetFocus moves UI focus; presentation code calls it when the operator
// navigates manually.
func (s *Session) SetFocus(view FocusView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = view
}

// PreviewContext returns the latest preview context sent by the backend.
func (s *Session) PreviewContext() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewContext
}

// BusinessContext returns the business record this session works on.
func (s *Session) BusinessContext() *shared.BusinessContext {
	return s.business
}
