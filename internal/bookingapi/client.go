package bookingapi

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

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/pkg/config"
)

// HTTPClient talks to the booking REST API over HTTP. It is the only
// component issuing entity mutations; everything above it works with
// proposals and form data.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates a booking API client from configuration.
func NewHTTPClient(cfg *config.ServerConfig, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BookingAPI.BaseURL, "/"),
		apiKey:     cfg.BookingAPI.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *HTTPClient) CreateService(ctx context.Context, input *ServiceInput) (*Service, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service input: %w", err)
	}
	var service Service
	if err := c.do(ctx, http.MethodPost, "/services", input, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *HTTPClient) UpdateService(ctx context.Context, serviceID int64, patch *ServicePatch) (*Service, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service patch: %w", err)
	}
	var service Service
	endpoint := fmt.Sprintf("/services/%d", serviceID)
	if err := c.do(ctx, http.MethodPatch, endpoint, patch, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *HTTPClient) DeleteService(ctx context.Context, serviceID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/services/%d", serviceID), nil, nil)
}

func (c *HTTPClient) CreateBooking(ctx context.Context, input *BookingInput) (*Booking, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid booking input: %w", err)
	}
	var booking Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", input, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *HTTPClient) CancelBooking(ctx context.Context, bookingID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/cancel", bookingID), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("booking api %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
	}

	c.logger.Debug("Booking API call completed", "method", method, "endpoint", endpoint)
	return nil
}

var Module = fx.Module("bookingapi",
	fx.Provide(
		fx.Annotate(
			NewHTTPClient,
			fx.As(new(BookingAPIClient)),
		),
	),
)
