package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
)

// Store is the ordered, keyed collection of currently pending proposals
// and the single source of truth for what is awaiting the user. Every
// mutation synchronously re-serializes the full pending set to durable
// storage; a storage failure is logged and swallowed, the in-memory set
// stays authoritative for the current session.
type Store struct {
	order   []string
	byID    map[string]*domain.Proposal
	storage Storage
	logger  *slog.Logger
	mu      sync.Mutex
}

// New creates an empty proposal store backed by the given storage.
func New(storage Storage, logger *slog.Logger) *Store {
	return &Store{
		byID:    make(map[string]*domain.Proposal),
		storage: storage,
		logger:  logger,
	}
}

// Rehydrate loads the previously persisted pending set. Called once at
// session start; returns the number of proposals recovered so the caller
// can decide the initial UI focus.
func (s *Store) Rehydrate(ctx context.Context) int {
	proposals, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to rehydrate pending proposals", "error", err)
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.byID = make(map[string]*domain.Proposal, len(proposals))
	for _, p := range proposals {
		if p == nil || p.ProposalID == "" {
			continue
		}
		if _, dup := s.byID[p.ProposalID]; dup {
			continue
		}
		s.order = append(s.order, p.ProposalID)
		s.byID[p.ProposalID] = p
	}

	s.logger.Info("Pending proposals rehydrated", "count", len(s.order))
	return len(s.order)
}

// ReplaceAll swaps the entire pending set.
func (s *Store) ReplaceAll(ctx context.Context, proposals []*domain.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.byID = make(map[string]*domain.Proposal, len(proposals))
	s.appendLocked(proposals)
	s.persistLocked(ctx)
}

// Append enqueues proposals at the end of the pending set, preserving
// insertion order. A proposal whose id is already present is skipped:
// proposal ids are unique across the store at any instant.
func (s *Store) Append(ctx context.Context, proposals []*domain.Proposal) {
	if len(proposals) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(proposals)
	s.persistLocked(ctx)
}

func (s *Store) appendLocked(proposals []*domain.Proposal) {
	for _, p := range proposals {
		if p == nil || p.ProposalID == "" {
			continue
		}
		if _, dup := s.byID[p.ProposalID]; dup {
			s.logger.Warn("Duplicate proposal id ignored", "proposal_id", p.ProposalID)
			continue
		}
		s.order = append(s.order, p.ProposalID)
		s.byID[p.ProposalID] = p
	}
}

// RemoveByID removes one proposal. Removing an absent id is a no-op, so
// removal is idempotent.
func (s *Store) RemoveByID(ctx context.Context, proposalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[proposalID]; !ok {
		return false
	}

	delete(s.byID, proposalID)
	for i, id := range s.order {
		if id == proposalID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.persistLocked(ctx)
	return true
}

// Clear drops every pending proposal and the durable blob. Proposals are
// scoped to a conversation session, so clearing the conversation clears
// the store.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.byID = make(map[string]*domain.Proposal)
	s.persistLocked(ctx)
}

// Get returns the pending proposal with the given id.
func (s *Store) Get(proposalID string) (*domain.Proposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[proposalID]
	return p, ok
}

// List returns the pending proposals in insertion order.
func (s *Store) List() []*domain.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Proposal, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of pending proposals.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// persistLocked mirrors the in-memory set to durable storage, best-effort.
// Caller must hold s.mu.
func (s *Store) persistLocked(ctx context.Context) {
	var err error
	if len(s.order) == 0 {
		err = s.storage.Clear(ctx)
	} else {
		proposals := make([]*domain.Proposal, 0, len(s.order))
		for _, id := range s.order {
			proposals = append(proposals, s.byID[id])
		}
		err = s.storage.Save(ctx, proposals)
	}
	if err != nil {
		s.logger.Error("Failed to persist pending proposals", "error", err)
	}
}
