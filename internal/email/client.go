package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "dojohub/pkg/domain-errors"
)

// Client posts messages to the email service's send endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/email/send", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build email request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "email service unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return dErrors.Newf(dErrors.CodeUpstream, "email service returned status %d", resp.StatusCode)
	}
	return nil
}

// Noop discards messages. Used when email notifications are disabled.
type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }
