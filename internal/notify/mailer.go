package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/baharkarakas/task-manager/internal/config"
	"github.com/wneessen/go-mail"
)

// Notifier sends the account lifecycle e-mails.
type Notifier interface {
	Welcome(ctx context.Context, email, name string) error
	Farewell(ctx context.Context, email, name string) error
}

// Message is a rendered plain-text e-mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

func WelcomeMessage(email, name string) Message {
	return Message{
		To:      email,
		Subject: "Thanks for joining in!",
		Body:    fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name),
	}
}

func FarewellMessage(email, name string) Message {
	return Message{
		To:      email,
		Subject: "Sorry to see you go!",
		Body:    fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name),
	}
}

// Mailer delivers messages through an SMTP relay.
type Mailer struct {
	client *mail.Client
	from   string
}

func NewMailer(cfg config.MailConfig) (*Mailer, error) {
	c, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	return &Mailer{client: c, from: cfg.From}, nil
}

func (m *Mailer) Welcome(ctx context.Context, email, name string) error {
	return m.Send(ctx, WelcomeMessage(email, name))
}

func (m *Mailer) Farewell(ctx context.Context, email, name string) error {
	return m.Send(ctx, FarewellMessage(email, name))
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	out := mail.NewMsg()
	if err := out.From(m.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send %q to %s: %w", msg.Subject, msg.To, err)
	}
	return nil
}
