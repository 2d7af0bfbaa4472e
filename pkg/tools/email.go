package tools

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailTool sends plain-text mail through the configured SMTP relay. The
// planner hands it "to", "subject" and "body" params.
type EmailTool struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailTool(host string, port int, username, password, senderEmail string) *EmailTool {
	return &EmailTool{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
	}
}

func (t *EmailTool) Name() string { return "send_email" }

func (t *EmailTool) Run(ctx context.Context, params map[string]interface{}) (string, error) {
	to := stringParam(params, "to")
	subject := stringParam(params, "subject")
	body := stringParam(params, "body")
	if to == "" {
		return "", fmt.Errorf("missing recipient")
	}
	if subject == "" {
		subject = "Message from support assistant"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", t.senderEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := t.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("send email to %s: %w", to, err)
	}
	return fmt.Sprintf("Email sent to %s.", to), nil
}
