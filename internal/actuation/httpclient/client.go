package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"growmind-cloud/internal/roles"
	rules "growmind-cloud/internal/rules/domain"
)

const defaultTimeout = 10 * time.Second

type applyRequest struct {
	Category roles.Category `json:"category"`
	Role     string         `json:"role"`
	Value    rules.Value    `json:"value"`
}

// Client actuates roles through the controller's HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// NewClient constructs a controller client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("actuation client: empty base url")
	}
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Apply posts the value for a role to the control surface. A non-2xx
// response is an error; no retries are performed.
func (c *Client) Apply(ctx context.Context, category roles.Category, role string, value rules.Value) error {
	if c == nil || c.baseURL == "" {
		return errors.New("actuation client: empty base url")
	}
	if role == "" {
		return errors.New("actuation client: empty role")
	}
	body, err := json.Marshal(applyRequest{Category: category, Role: role, Value: value})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/actuate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("actuation client: non-2xx response %d for role %s", resp.StatusCode, role)
	}
	return nil
}
