package mailer

import (
	"context"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outbound transactional email.
type Message struct {
	FromName  string
	FromEmail string
	ToEmail   string
	ReplyTo   string
	Subject   string
	Text      string
	HTML      string
}

// Sender dispatches a message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type sendgridSender struct {
	client *sendgrid.Client
}

func NewSendgridSender() Sender {
	return &sendgridSender{
		client: sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY")),
	}
}

func (s *sendgridSender) Send(ctx context.Context, msg Message) (string, error) {
	from := mail.NewEmail(msg.FromName, msg.FromEmail)
	to := mail.NewEmail("", msg.ToEmail)

	var m *mail.SGMailV3
	if msg.HTML == "" {
		m = mail.NewSingleEmailPlainText(from, msg.Subject, to, msg.Text)
	} else {
		m = mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	}
	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("sendgrid send failed: status %d – %s", resp.StatusCode, resp.Body)
	}

	id := resp.Headers["X-Message-Id"]
	if len(id) > 0 {
		return id[0], nil
	}
	return "", nil
}
