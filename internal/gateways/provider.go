package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
)

var ErrProviderNotConfigured = errors.New("sms provider is not configured")

// SendRequest is the wire contract with the SMS provider.
type SendRequest struct {
	To       string `json:"to"`
	From     string `json:"from"`
	Body     string `json:"body"`
	ClinicID string `json:"clinic_id"`
}

type SendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	ErrorMsg  string `json:"error_message,omitempty"`
}

// ProviderAPI is what the gateway needs from a provider: send one message,
// answer a health probe.
type ProviderAPI interface {
	Send(ctx context.Context, req *SendRequest) (*SendResponse, error)
	Health(ctx context.Context) error
}

type ProviderConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// ProviderClient talks to the SMS provider over HTTP.
type ProviderClient struct {
	config *ProviderConfig
	client *fasthttp.Client
}

func NewProviderClient(config *ProviderConfig) (*ProviderClient, error) {
	if config == nil || config.URL == "" || config.APIKey == "" {
		return nil, ErrProviderNotConfigured
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &ProviderClient{
		config: config,
		client: &fasthttp.Client{
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}, nil
}

func (c *ProviderClient) Send(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	raw, err := c.doRequest(ctx, "POST", "/api/v1/sms/send", body)
	if err != nil {
		return nil, err
	}

	var resp SendResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	logger.Debug("provider accepted message", "message_id", resp.MessageID, "status", resp.Status)
	return &resp, nil
}

func (c *ProviderClient) Health(ctx context.Context) error {
	raw, err := c.doRequest(ctx, "GET", "/health", nil)
	if err != nil {
		return err
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &health); err != nil {
		return fmt.Errorf("failed to unmarshal health response: %w", err)
	}
	if health.Status != "healthy" {
		return fmt.Errorf("provider reports status %q", health.Status)
	}
	return nil
}

func (c *ProviderClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.URL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())
	return result, nil
}
