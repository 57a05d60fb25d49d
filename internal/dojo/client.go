package dojo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dojohub/pkg/domain"
	"dojohub/pkg/platform/circuit"
	"dojohub/pkg/platform/sentinel"
)

// Client calls the dojo service over HTTP. A circuit breaker guards the
// upstream: after repeated failures calls short-circuit with
// sentinel.ErrUnavailable instead of piling onto a struggling service, and
// an open circuit admits one probe per cooldown so recovery is observed.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuit.Breaker
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: circuit.New("dojo-service", circuit.WithFailureThreshold(5)),
	}
}

func (c *Client) UsersDojos(ctx context.Context, userID domain.UserID) ([]Membership, error) {
	var memberships []Membership
	if err := c.get(ctx, fmt.Sprintf("/users/%s/memberships", userID), &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

func (c *Client) DojosForUser(ctx context.Context, userID domain.UserID) ([]Summary, error) {
	var dojos []Summary
	if err := c.get(ctx, fmt.Sprintf("/users/%s/dojos", userID), &dojos); err != nil {
		return nil, err
	}
	return dojos, nil
}

func (c *Client) SearchDojoLeads(ctx context.Context, userID domain.UserID) (int, error) {
	var result struct {
		Total int `json:"total"`
	}
	if err := c.get(ctx, fmt.Sprintf("/users/%s/dojo-leads", userID), &result); err != nil {
		return 0, err
	}
	return result.Total, nil
}

func (c *Client) MyDojos(ctx context.Context, userID domain.UserID) ([]Summary, error) {
	var dojos []Summary
	if err := c.get(ctx, fmt.Sprintf("/users/%s/my-dojos", userID), &dojos); err != nil {
		return nil, err
	}
	return dojos, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if !c.breaker.Allow() {
		return fmt.Errorf("dojo service: %w: circuit open", sentinel.ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build dojo request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return fmt.Errorf("dojo service: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.breaker.RecordSuccess()
		return sentinel.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.breaker.RecordFailure()
		return fmt.Errorf("dojo service: %w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	c.breaker.RecordSuccess()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode dojo response: %w", err)
	}
	return nil
}
