// Package insight submits prompts to a chat-completion endpoint and decodes the
// free-form reply into discrete actionable insights.
package insight

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/seo-optimizer/insights/errs"
)

const (
	DefaultEndpoint = "https://api.perplexity.ai/chat/completions"
	DefaultModel    = "mistral-7b-instruct"
	DefaultTimeout  = 30 * time.Second
)

// Config configures a Client. Zero values select the defaults above.
type Config struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Client queries the completion endpoint. One prompt yields exactly one
// request; nothing is retried.
type Client struct {
	resty    *resty.Client
	endpoint string
	model    string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

// New returns a Client sending requests through hc. A nil hc uses a fresh
// *http.Client.
func New(hc *http.Client, cfg Config) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	rc := resty.NewWithClient(hc).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		rc.SetAuthToken(cfg.APIKey)
	}

	return &Client{resty: rc, endpoint: cfg.Endpoint, model: cfg.Model}
}

// Model is the fixed model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Query sends prompt as a single user message and parses the reply.
// Every failure is an errs.Upstream error.
func (c *Client) Query(ctx context.Context, prompt string) (*Result, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(completionRequest{
			Model:    c.model,
			Messages: []message{{Role: "user", Content: prompt}},
		}).
		Post(c.endpoint)
	if err != nil {
		return nil, errs.UpstreamError(fmt.Sprintf("Request to completion endpoint failed: %v", err), err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, errs.UpstreamError(fmt.Sprintf("HTTP error occurred: %d - %s", resp.StatusCode(), resp.String()), nil)
	}

	return ParseCompletion(resp.Body())
}
