package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	plugins "github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/application"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/chat"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/coordinator"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/store"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/pkg/logger"
)

// MCPAdapter bridges the assistant session and proposal queue to the MCP server.
// Single responsibility: adapt conversation capabilities to MCP registration.
type MCPAdapter struct {
	session   *chat.Session
	coord     *coordinator.Coordinator
	proposals *store.Store
	registry  *plugins.ActionRegistry
	buffer    *logger.RingBuffer
	mcpServer *mcpserver.MCPServer
	logger    *slog.Logger
}

func NewMCPAdapter(
	session *chat.Session,
	coord *coordinator.Coordinator,
	proposals *store.Store,
	registry *plugins.ActionRegistry,
	buffer *logger.RingBuffer,
	mcpServer *mcpserver.MCPServer,
	logger *slog.Logger,
) *MCPAdapter {
	return &MCPAdapter{
		session:   session,
		coord:     coord,
		proposals: proposals,
		registry:  registry,
		buffer:    buffer,
		mcpServer: mcpServer,
		logger:    logger,
	}
}

// RegisterAll registers every resource and tool with the MCP server.
func (a *MCPAdapter) RegisterAll(ctx context.Context) error {
	if err := a.registerResources(ctx); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}
	if err := a.registerTools(ctx); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	a.logger.Info("All capabilities registered with MCP server")
	return nil
}

func (a *MCPAdapter) registerResources(ctx context.Context) error {
	resources := []struct {
		resource mcp.Resource
		handler  mcpserver.ResourceHandlerFunc
	}{
		{
			resource: mcp.NewResource(
				"assistant://proposals/pending",
				"Pending actions",
				mcp.WithResourceDescription("Actions suggested by the assistant that await operator review"),
				mcp.WithMIMEType("application/json"),
			),
			handler: a.handlePendingProposalsResource,
		},
		{
			resource: mcp.NewResource(
				"assistant://chat/transcript",
				"Chat transcript",
				mcp.WithResourceDescription("Messages exchanged in the current conversation"),
				mcp.WithMIMEType("application/json"),
			),
			handler: a.handleTranscriptResource,
		},
		{
			resource: mcp.NewResource(
				"assistant://logs/recent",
				"Recent logs",
				mcp.WithResourceDescription("Recent assistant log lines, credentials redacted"),
				mcp.WithMIMEType("text/plain"),
			),
			handler: a.handleRecentLogsResource,
		},
	}

	for _, r := range resources {
		a.mcpServer.AddResource(r.resource, r.handler)
		a.logger.Debug("Resource registered", "uri", r.resource.URI)
	}
	return nil
}

func (a *MCPAdapter) registerTools(ctx context.Context) error {
	tools := []struct {
		builder func() mcp.Tool
		handler mcpserver.ToolHandlerFunc
	}{
		{builder: buildSendMessageTool, handler: a.handleSendMessage},
		{builder: buildListPendingActionsTool, handler: a.handleListPendingActions},
		{builder: buildConfirmActionTool, handler: a.handleConfirmAction},
		{builder: buildCancelActionTool, handler: a.handleCancelAction},
		{builder: buildNewChatTool, handler: a.handleNewChat},
	}

	for _, t := range tools {
		tool := t.builder()
		a.mcpServer.AddTool(tool, t.handler)
		a.logger.Debug("Tool registered", "tool", tool.Name)
	}
	return nil
}
