// Package email sends templated notification emails through the platform
// email service. Templates are addressed by code; the locale is folded into
// the code so the email service picks the right translation.
package email

import (
	"context"
	"fmt"
)

// Message is one templated email. Content keys are template variables.
type Message struct {
	Code    string         `json:"code"`
	To      string         `json:"to"`
	Content map[string]any `json:"content"`
}

// Sender delivers templated emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResetCode builds the localized template code for password reset emails.
func ResetCode(locality string) string {
	if locality == "" {
		locality = "en_US"
	}
	return fmt.Sprintf("auth-create-reset-%s", locality)
}
