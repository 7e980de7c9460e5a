// Package msgraph resolves a caller's security groups through Microsoft Graph
// and turns them into a permission filter over the claims index.
package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

const (
	// DefaultEndpoint is the Graph v1.0 root.
	DefaultEndpoint = "https://graph.microsoft.com/v1.0"
	// DefaultMaxPages bounds nextLink traversal.
	DefaultMaxPages = 100

	membershipPath = "/me/transitiveMemberOf?$select=id"
	maxErrorBody   = 512
)

// Config holds Graph client settings.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
	MaxPages   int
	Logger     *zap.Logger
}

// Client fetches transitive group membership for a delegated user token.
type Client struct {
	endpoint string
	host     string
	http     *http.Client
	maxPages int
	logger   *zap.Logger
}

// New creates a Graph client.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: graph endpoint %q", domain.ErrInvalidInput, cfg.Endpoint)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint: endpoint,
		host:     u.Host,
		http:     hc,
		maxPages: maxPages,
		logger:   logger,
	}, nil
}

type membershipPage struct {
	Value []struct {
		ID string `json:"id"`
	} `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// FetchUserGroups returns the ids of every group the token's user belongs to,
// following @odata.nextLink until the listing is exhausted.
func (c *Client) FetchUserGroups(ctx context.Context, token string) ([]string, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty graph token", domain.ErrInvalidInput)
	}

	var groups []string
	next := c.endpoint + membershipPath
	for page := 0; next != ""; page++ {
		if page >= c.maxPages {
			return nil, fmt.Errorf("%w: more than %d membership pages", domain.ErrGroupLookupFailed, c.maxPages)
		}
		if err := c.sameHost(next); err != nil {
			return nil, err
		}

		p, err := c.fetchPage(ctx, next, token)
		if err != nil {
			return nil, err
		}
		for _, v := range p.Value {
			if v.ID != "" {
				groups = append(groups, v.ID)
			}
		}
		next = p.NextLink
	}

	c.logger.Debug("Resolved user groups", zap.Int("groups", len(groups)))
	return groups, nil
}

func (c *Client) fetchPage(ctx context.Context, link, token string) (*membershipPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrGroupLookupFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGroupLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best-effort detail
		c.logger.Warn("Graph membership request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("%w: graph returned %d", domain.ErrGroupLookupFailed, resp.StatusCode)
	}

	var p membershipPage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode membership page: %v", domain.ErrGroupLookupFailed, err)
	}
	return &p, nil
}

// sameHost keeps the bearer token on the configured Graph host.
func (c *Client) sameHost(link string) error {
	u, err := url.Parse(link)
	if err != nil || u.Host != c.host {
		return fmt.Errorf("%w: unexpected next link %q", domain.ErrGroupLookupFailed, link)
	}
	return nil
}

// FilterString renders the permission filter for the given group ids.
// It returns "" when ids is empty; callers treat that as "no access".
func FilterString(field string, ids []string) string {
	return db.TagFilter(field, ids...)
}
