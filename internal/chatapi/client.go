package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.uber.org/fx"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/pkg/config"
)

// HTTPChatClient talks to the chat backend over HTTP.
type HTTPChatClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPChatClient creates a chat backend client from configuration.
func NewHTTPChatClient(cfg *config.ServerConfig, logger *slog.Logger) *HTTPChatClient {
	return &HTTPChatClient{
		baseURL:    strings.TrimRight(cfg.ChatBackend.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *HTTPChatClient) Open(ctx context.Context) (*Message, error) {
	return c.do(ctx, http.MethodGet, "/chat/open", nil)
}

func (c *HTTPChatClient) SendMessage(ctx context.Context, content string) (*Message, error) {
	return c.do(ctx, http.MethodPost, "/chat/message", sendMessageRequest{Content: content})
}

func (c *HTTPChatClient) SendActionResult(ctx context.Context, result domain.ActionResult) (*Message, error) {
	return c.do(ctx, http.MethodPost, "/chat/action-result", result)
}

func (c *HTTPChatClient) do(ctx context.Context, method, endpoint string, payload any) (*Message, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request for %s: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: string(data)}
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}

	c.logger.Debug("Chat backend call completed",
		"endpoint", endpoint,
		"proposal_count", len(msg.Proposals))
	return &msg, nil
}

var Module = fx.Module("chatapi",
	fx.Provide(
		fx.Annotate(
			NewHTTPChatClient,
			fx.As(new(ChatClient)),
		),
	),
)
