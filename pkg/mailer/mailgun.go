package mailer

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends transactional email through the Mailgun API.
type Mailgun struct {
	client *mailgun.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mailgun.NewMailgun(domain, apiKey), sender: sender}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHTML(html)
	}
	_, _, err := m.client.Send(ctx, msg)
	return err
}
