package core

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/EmundoT/git-assess/internal/version"
)

// DefaultDashverseEndpoint is the public assessment collector.
const DefaultDashverseEndpoint = "https://db.dashverse.cloud"

const maxErrorBody = 64 << 10

// DashverseClient posts reports to a Dashverse collector with a bearer token.
type DashverseClient struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client // base client; its transport carries the request
}

// NewDashverseClient creates a client for endpoint (DefaultDashverseEndpoint when empty).
func NewDashverseClient(endpoint, token string) *DashverseClient {
	if endpoint == "" {
		endpoint = DefaultDashverseEndpoint
	}
	return &DashverseClient{
		Endpoint:   endpoint,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Name identifies the collector in messages.
func (c *DashverseClient) Name() string {
	return "dashverse"
}

// Publish sends doc to <endpoint>/assessment. A missing token fails before any
// request is made; any non-2xx response is returned as a *PublishError.
func (c *DashverseClient) Publish(ctx context.Context, doc []byte) error {
	if c.Token == "" {
		return &PublishError{Target: c.Name(), Err: ErrMissingToken}
	}

	base := c.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	client := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, base),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token, TokenType: "Bearer"}),
	)
	client.Timeout = base.Timeout

	url := strings.TrimSuffix(c.Endpoint, "/") + "/assessment"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(doc))
	if err != nil {
		return &PublishError{Target: c.Name(), Err: err}
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return &PublishError{Target: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best effort
		return &PublishError{
			Target:     c.Name(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck
	return nil
}
