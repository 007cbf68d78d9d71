package domain

import (
	"encoding/json"
	"fmt"
)

// Proposal is a single structured, assistant-originated suggestion to
// mutate or display a domain record. It is the value of the tagged union:
// Kind is the discriminant, the remaining optional fields are populated
// per variant.
//
// Numeric record identifiers (ResolvedID) are always pre-resolved by the
// chat backend; the protocol itself performs no name resolution.
type Proposal struct {
	Kind          ActionKind    `json:"kind"`
	ProposalID    string        `json:"proposalId"`
	ExecutionMode ExecutionMode `json:"executionMode"`

	// TargetCollection optionally scopes create variants to a collection
	// (e.g. a service category) within the business.
	TargetCollection *int64 `json:"targetCollection,omitempty"`

	// ResolvedID identifies the target record for update/delete/view variants.
	ResolvedID *int64 `json:"resolvedId,omitempty"`

	// Label is the human-readable name of the target record, used in
	// confirmation text for update/delete variants.
	Label string `json:"label,omitempty"`

	// Payload carries the candidate field values (create/update) or the
	// full record (view).
	Payload map[string]any `json:"payload,omitempty"`
}

// FormData is the user-edited field set supplied on confirmation.
// It takes precedence over the proposal's candidate payload.
type FormData map[string]any

// Validate checks the proposal against the wire contract. Structural
// problems (missing id, bad execution mode, a known kind missing its
// required fields) are reported as *ValidationError. A well-formed
// proposal whose kind is outside the known vocabulary passes validation
// and is handled downstream as a registry miss.
func (p *Proposal) Validate() error {
	if p.ProposalID == "" {
		return &ValidationError{Field: "proposalId", Reason: "must not be empty"}
	}
	if p.Kind == "" {
		return &ValidationError{Field: "kind", Reason: "must not be empty"}
	}
	if !p.ExecutionMode.IsValid() {
		return &ValidationError{
			Field:  "executionMode",
			Reason: fmt.Sprintf("%q is not a valid execution mode", p.ExecutionMode),
		}
	}

	if !p.Kind.IsKnown() {
		return nil
	}

	switch p.Kind.Verb() {
	case "create":
		if len(p.Payload) == 0 {
			return &ValidationError{Field: "payload", Reason: fmt.Sprintf("required for %s", p.Kind)}
		}
	case "update":
		if p.ResolvedID == nil {
			return &ValidationError{Field: "resolvedId", Reason: fmt.Sprintf("required for %s", p.Kind)}
		}
		if p.Label == "" {
			return &ValidationError{Field: "label", Reason: fmt.Sprintf("required for %s", p.Kind)}
		}
		if len(p.Payload) == 0 {
			return &ValidationError{Field: "payload", Reason: fmt.Sprintf("required for %s", p.Kind)}
		}
	case "delete", "cancel":
		if p.ResolvedID == nil {
			return &ValidationError{Field: "resolvedId", Reason: fmt.Sprintf("required for %s", p.Kind)}
		}
		if p.Label == "" {
			return &ValidationError{Field: "label", Reason: fmt.Sprintf("required for %s", p.Kind)}
		}
	case "view":
		if p.ResolvedID == nil {
			return &ValidationError{Field: "resolvedId", Reason: fmt.Sprintf("required for %s", p.Kind)}
		}
		if p.ExecutionMode != ModeAuto {
			return &ValidationError{Field: "executionMode", Reason: fmt.Sprintf("%s variants are display-only and must be %q", p.Kind, ModeAuto)}
		}
	}

	return nil
}

// ParseProposal decodes and validates a single proposal from wire JSON.
func ParseProposal(data []byte) (*Proposal, error) {
	var p Proposal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// FieldValue returns the candidate value of a payload field.
func (p *Proposal) FieldValue(name string) (any, bool) {
	v, ok := p.Payload[name]
	return v, ok
}

// MergedFields overlays user-edited form data on the proposal's candidate
// payload. Edited values win; fields absent from the form keep their
// proposed value.
func (p *Proposal) MergedFields(form FormData) map[string]any {
	merged := make(map[string]any, len(p.Payload)+len(form))
	for k, v := range p.Payload {
		merged[k] = v
	}
	for k, v := range form {
		merged[k] = v
	}
	return merged
}
