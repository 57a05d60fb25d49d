// Package captcha verifies reCAPTCHA responses submitted with registration
// forms against the upstream verification endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "dojohub/pkg/domain-errors"
)

// Verifier checks a captcha response token.
type Verifier interface {
	Verify(ctx context.Context, response string) error
}

// Client verifies tokens against the reCAPTCHA siteverify endpoint.
type Client struct {
	verifyURL string
	secret    string
	http      *http.Client
}

func NewClient(verifyURL, secret string) *Client {
	return &Client{
		verifyURL: verifyURL,
		secret:    secret,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token and secret to the verification endpoint. A missing
// or rejected token is a validation error; endpoint trouble is upstream.
func (c *Client) Verify(ctx context.Context, response string) error {
	if response == "" {
		return dErrors.New(dErrors.CodeValidation, "captcha response is required")
	}

	form := url.Values{}
	form.Set("response", response)
	form.Set("secret", c.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build captcha request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "captcha verification unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dErrors.Newf(dErrors.CodeUpstream, "captcha verification returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "failed to decode captcha response")
	}
	if !body.Success {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("captcha verification failed: %s", strings.Join(body.ErrorCodes, ", ")))
	}
	return nil
}

// AlwaysPass is a Verifier for environments without captcha configured.
type AlwaysPass struct{}

func (AlwaysPass) Verify(context.Context, string) error { return nil }
