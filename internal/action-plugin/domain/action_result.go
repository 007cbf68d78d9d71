package domain

// ActionResultStatus is the terminal outcome reported for a proposal.
type ActionResultStatus string

const (
	StatusConfirmed ActionResultStatus = "confirmed"
	StatusCancelled ActionResultStatus = "cancelled"
	StatusModified  ActionResultStatus = "modified"
)

// IsValid checks if the status is one of the allowed values
func (s ActionResultStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusModified:
		return true
	default:
		return false
	}
}

// ActionResult is the wire value sent to the chat backend when a pending
// proposal is resolved.
type ActionResult struct {
	ProposalID string             `json:"proposalId"`
	Status     ActionResultStatus `json:"status"`
	Result     map[string]any     `json:"result,omitempty"`
}

// ConfirmedResult builds the resolution value for a successfully executed proposal.
func ConfirmedResult(proposalID string, result map[string]any) ActionResult {
	return ActionResult{ProposalID: proposalID, Status: StatusConfirmed, Result: result}
}

// CancelledResult builds the resolution value for a dismissed proposal.
func CancelledResult(proposalID string) ActionResult {
	return ActionResult{ProposalID: proposalID, Status: StatusCancelled}
}
