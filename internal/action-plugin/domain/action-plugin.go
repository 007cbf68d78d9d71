package domain

import (
	"context"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared"
)

// ActionPlugin represents the unified per-entity action plugin interface
// Each plugin only needs to provide its basic information and capabilities
type ActionPlugin interface {
	ID() string
	Name() string
	Description() string
	Version() string
}

// ActionProvider defines plugins that contribute actions to the registry
type ActionProvider interface {
	ActionPlugin
	GetActions(ctx context.Context) ([]Action, error)
}

// PropsFunc derives the exact prop set a display component needs from the
// proposal payload plus the ambient business context. It must be a pure
// function of its inputs: no side effects, no network calls.
type PropsFunc func(proposal *Proposal, business *shared.BusinessContext) (map[string]any, error)

// ExecuteFunc issues the actual mutation for a confirmed proposal. It is
// the only place a mutation request may be made. Form data is the
// user-edited field set (nil for delete-style actions, where the
// confirmation itself is the form data).
type ExecuteFunc func(ctx context.Context, proposal *Proposal, form FormData) error

// Action is the registry entry bound to one proposal kind: a display
// descriptor, a prop-derivation function, and an optional executor.
// A nil Execute marks the kind as display-only; such proposals are never
// placed into the confirm/cancel handshake.
type Action struct {
	Kind     ActionKind
	Title    string
	GetProps PropsFunc
	Execute  ExecuteFunc
}

// IsExecutable reports whether the action carries a mutation executor.
func (a Action) IsExecutable() bool {
	return a.Execute != nil
}
