package domain

import "strings"

// ActionKind is the discriminant of the proposal union, formatted as
// "<entity>:<verb>" (e.g. "service:create").
type ActionKind string

const (
	// Service entity actions
	KindServiceCreate ActionKind = "service:create"
	KindServiceUpdate ActionKind = "service:update"
	KindServiceDelete ActionKind = "service:delete"
	KindServiceView   ActionKind = "service:view"

	// Booking entity actions
	KindBookingCreate ActionKind = "booking:create"
	KindBookingCancel ActionKind = "booking:cancel"
)

// IsKnown checks if the kind is part of the statically known vocabulary.
// A well-formed proposal with an unknown kind is still accepted at the
// boundary; it surfaces later as a registry miss.
func (k ActionKind) IsKnown() bool {
	switch k {
	case KindServiceCreate, KindServiceUpdate, KindServiceDelete, KindServiceView,
		KindBookingCreate, KindBookingCancel:
		return true
	default:
		return false
	}
}

// Entity returns the entity part of the kind ("service" for "service:create").
func (k ActionKind) Entity() string {
	if idx := strings.Index(string(k), ":"); idx >= 0 {
		return string(k)[:idx]
	}
	return string(k)
}

// Verb returns the verb part of the kind ("create" for "service:create").
func (k ActionKind) Verb() string {
	if idx := strings.Index(string(k), ":"); idx >= 0 {
		return string(k)[idx+1:]
	}
	return ""
}

// String returns the string representation of the kind
func (k ActionKind) String() string {
	return string(k)
}

// KnownKinds returns the full statically known action vocabulary
func KnownKinds() []ActionKind {
	return []ActionKind{
		KindServiceCreate,
		KindServiceUpdate,
		KindServiceDelete,
		KindServiceView,
		KindBookingCreate,
		KindBookingCancel,
	}
}
