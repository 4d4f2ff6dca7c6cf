// Package github is the remote repository gateway. It wraps the GitHub
// content endpoints (raw README text) and the structural git-tree API,
// returning per-repository data the detector scores. Failures map onto the
// shared error taxonomy in pkg/types so callers can degrade gracefully.
package github

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	gogithub "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/jingkaihe/skillscout/pkg/logger"
	"github.com/jingkaihe/skillscout/pkg/version"
)

const defaultTimeout = 30 * time.Second

// Client wraps the GitHub API clients with skillscout-specific behavior.
type Client struct {
	raw     *resty.Client
	api     *gogithub.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each outbound call. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRawBaseURL overrides the raw content host. Used by tests.
func WithRawBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.raw.SetBaseURL(baseURL)
	}
}

// WithAPIBaseURL overrides the REST API host. Used by tests.
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.api, _ = c.api.WithEnterpriseURLs(baseURL, baseURL)
	}
}

// NewClient creates a gateway client. An empty token is allowed but the
// unauthenticated tree API rate limit is severe.
func NewClient(ctx context.Context, token string, opts ...Option) *Client {
	log := logger.G(ctx)

	raw := resty.New().
		SetBaseURL("https://raw.githubusercontent.com").
		SetHeader("User-Agent", version.UserAgent())

	var api *gogithub.Client
	if token == "" {
		log.Debug("no GitHub token configured, tree API calls are unauthenticated")
		api = gogithub.NewClient(nil)
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		api = gogithub.NewClient(oauth2.NewClient(ctx, ts))
		raw.SetHeader("Authorization", "Bearer "+token)
	}

	c := &Client{
		raw:     raw,
		api:     api,
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.raw.SetTimeout(c.timeout)
	return c
}
