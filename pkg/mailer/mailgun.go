package mailer

import (
	"context"
	"errors"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun delivers communication emails through the Mailgun API.
type Mailgun struct {
	Sender string
	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Sender: sender, client: mg.NewMailgun(domain, apiKey)}
}

// Deliver sends one job. Messages are tagged "communication" and carry the
// communication id and recipient as variables so webhooks can be correlated.
func (m *Mailgun) Deliver(ctx context.Context, job EmailJob) error {
	if job.To == "" {
		return errors.New("mailgun: job has no address")
	}
	msg := m.client.NewMessage(m.Sender, job.Subject, job.Text, job.To)
	if job.HTML != "" {
		msg.SetHtml(job.HTML)
	}
	if err := msg.AddTag("communication"); err != nil {
		return err
	}
	if err := msg.AddVariable("communication_id", job.CommunicationID); err != nil {
		return err
	}
	if err := msg.AddVariable("recipient", job.Recipient); err != nil {
		return err
	}
	_, _, err := m.client.Send(ctx, msg)
	return err
}
