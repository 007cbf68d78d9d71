package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/chat"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/coordinator"
)

// Tool builders
func buildSendMessageTool() mcp.Tool {
	return mcp.NewTool(
		"send_message",
		mcp.WithDescription("Send a message to the booking assistant and receive its reply"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Message text to send"),
		),
	)
}

func buildListPendingActionsTool() mcp.Tool {
	return mcp.NewTool(
		"list_pending_actions",
		mcp.WithDescription("List actions suggested by the assistant that await review"),
	)
}

func buildConfirmActionTool() mcp.Tool {
	return mcp.NewTool(
		"confirm_action",
		mcp.WithDescription("Confirm a pending action, optionally with edited form values, and execute it"),
		mcp.WithString("proposal_id",
			mcp.Required(),
			mcp.Description("Identifier of the pending action to confirm"),
		),
		mcp.WithObject("form",
			mcp.Description("Field values edited by the operator, merged over the suggested payload"),
		),
	)
}

func buildCancelActionTool() mcp.Tool {
	return mcp.NewTool(
		"cancel_action",
		mcp.WithDescription("Cancel a pending action without executing it"),
		mcp.WithString("proposal_id",
			mcp.Required(),
			mcp.Description("Identifier of the pending action to cancel"),
		),
	)
}

func buildNewChatTool() mcp.Tool {
	return mcp.NewTool(
		"new_chat",
		mcp.WithDescription("Discard the current conversation and pending actions, then start a fresh one"),
	)
}

// proposalSummary is the wire shape of one pending action in tool and resource output.
type proposalSummary struct {
	ProposalID    string         `json:"proposalId"`
	Kind          string         `json:"kind"`
	Label         string         `json:"label,omitempty"`
	ExecutionMode string         `json:"executionMode"`
	ResolvedID    *int64         `json:"resolvedId,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
	Executable    bool           `json:"executable"`
}

func (a *MCPAdapter) summarize(p *domain.Proposal) proposalSummary {
	executable := false
	if action, ok := a.registry.Resolve(p.Kind); ok {
		executable = action.IsExecutable()
	}
	return proposalSummary{
		ProposalID:    p.ProposalID,
		Kind:          p.Kind.String(),
		Label:         p.Label,
		ExecutionMode: string(p.ExecutionMode),
		ResolvedID:    p.ResolvedID,
		Payload:       p.Payload,
		Executable:    executable,
	}
}

func (a *MCPAdapter) pendingSummaries() []proposalSummary {
	pending := a.proposals.List()
	summaries := make([]proposalSummary, 0, len(pending))
	for _, p := range pending {
		summaries = append(summaries, a.summarize(p))
	}
	return summaries
}

// Tool handlers
func (a *MCPAdapter) handleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return NewResult(ToolResponse{Status: ToolStatusError, Code: "missing_content", Message: "Message content is required"}, a.logger), nil
	}

	reply, err := a.session.Send(ctx, content)
	if err != nil {
		return NewResult(ToolResponse{Status: ToolStatusError, Code: "send_failed", Message: fmt.Sprintf("Failed to send message: %v", err)}, a.logger), nil
	}

	resp := ToolResponse{
		Status: ToolStatusOK,
		Data: map[string]any{
			"reply":        reply.Content,
			"focus":        string(a.session.Focus()),
			"pendingCount": a.proposals.Len(),
		},
	}
	if a.proposals.Len() > 0 {
		resp.Links = []ToolLink{{Rel: "pending", Tool: "list_pending_actions"}}
	}
	return NewResult(resp, a.logger), nil
}

func (a *MCPAdapter) handleListPendingActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return NewResult(ToolResponse{
		Status: ToolStatusOK,
		Data: map[string]any{
			"pending": a.pendingSummaries(),
			"focus":   string(a.session.Focus()),
		},
	}, a.logger), nil
}

func (a *MCPAdapter) handleConfirmAction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	proposalID, err := req.RequireString("proposal_id")
	if err != nil {
		return NewResult(ToolResponse{Status: ToolStatusError, Code: "missing_proposal_id", Message: "Proposal identifier is required"}, a.logger), nil
	}

	var form domain.FormData
	if raw, ok := req.GetArguments()["form"]; ok {
		fields, ok := raw.(map[string]any)
		if !ok {
			return NewResult(ToolResponse{Status: ToolStatusError, Code: "invalid_form", Message: "Form values must be an object"}, a.logger), nil
		}
		form = fields
	}

	if err := a.coord.Confirm(ctx, proposalID, form); err != nil {
		return NewResult(a.resolutionError("confirm", proposalID, err), a.logger), nil
	}

	return NewResult(ToolResponse{
		Status:  ToolStatusOK,
		Message: fmt.Sprintf("Action '%s' confirmed and executed", proposalID),
		Data:    map[string]any{"pendingCount": a.proposals.Len()},
	}, a.logger), nil
}

func (a *MCPAdapter) handleCancelAction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	proposalID, err := req.RequireString("proposal_id")
	if err != nil {
		return NewResult(ToolResponse{Status: ToolStatusError, Code: "missing_proposal_id", Message: "Proposal identifier is required"}, a.logger), nil
	}

	if err := a.coord.Cancel(ctx, proposalID); err != nil {
		return NewResult(a.resolutionError("cancel", proposalID, err), a.logger), nil
	}

	return NewResult(ToolResponse{
		Status:  ToolStatusOK,
		Message: fmt.Sprintf("Action '%s' cancelled", proposalID),
		Data:    map[string]any{"pendingCount": a.proposals.Len()},
	}, a.logger), nil
}

func (a *MCPAdapter) handleNewChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := a.session.NewChat(ctx); err != nil {
		return NewResult(ToolResponse{Status: ToolStatusError, Code: "new_chat_failed", Message: fmt.Sprintf("Failed to start a new conversation: %v", err)}, a.logger), nil
	}

	transcript := a.session.Transcript()
	opening := ""
	if len(transcript) > 0 {
		opening = transcript[len(transcript)-1].Content
	}
	return NewResult(ToolResponse{
		Status: ToolStatusOK,
		Data: map[string]any{
			"opening": opening,
			"focus":   string(chat.ViewPreview),
		},
	}, a.logger), nil
}

func (a *MCPAdapter) resolutionError(verb, proposalID string, err error) ToolResponse {
	switch {
	case errors.Is(err, domain.ErrProposalNotFound):
		return ToolResponse{Status: ToolStatusError, Code: "proposal_not_found", Message: fmt.Sprintf("No pending action with id '%s'", proposalID)}
	case errors.Is(err, domain.ErrUnknownAction):
		return ToolResponse{Status: ToolStatusError, Code: "unknown_action", Message: fmt.Sprintf("Action '%s' has a kind this server cannot execute; it can only be cancelled", proposalID)}
	case errors.Is(err, domain.ErrNotExecutable):
		return ToolResponse{Status: ToolStatusError, Code: "not_executable", Message: fmt.Sprintf("Action '%s' is not confirmable", proposalID)}
	case errors.Is(err, coordinator.ErrInFlight):
		return ToolResponse{Status: ToolStatusError, Code: "resolution_in_flight", Message: fmt.Sprintf("Action '%s' is already being resolved", proposalID)}
	default:
		return ToolResponse{Status: ToolStatusError, Code: verb + "_failed", Message: fmt.Sprintf("Failed to %s action '%s': %v", verb, proposalID, err)}
	}
}
