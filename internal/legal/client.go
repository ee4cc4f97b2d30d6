// Package legal is the thin client for the external legal-entity subsystem.
// The user-deletion cascade calls it per account and swallows failures, so
// this collaborator can never block a delete.
package legal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.LegalEntityRemover = (*Client)(nil)

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a legal-entity client. An empty baseURL disables the
// hook; RemoveByUser becomes a no-op.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// RemoveByUser asks the legal-entity subsystem to drop everything owned by
// the user.
func (c *Client) RemoveByUser(ctx context.Context, userUUID string) error {
	if c.baseURL == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/internal/legal-entities/by-user/%s", c.baseURL, url.PathEscape(userUUID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build legal-entity request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call legal-entity service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("legal-entity service returned status %d", resp.StatusCode)
	}
	return nil
}
