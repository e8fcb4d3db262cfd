package notify

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spicemart/spicesite/config"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when the operator mailbox or the SMTP
// credentials are missing.
var ErrNotConfigured = errors.New("mail sender not configured")

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// MailSender sends through an SMTP account with gomail.
type MailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailSender(cfg config.MailConfig) *MailSender {
	return &MailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.Sender(),
	}
}

func (s *MailSender) Send(ctx context.Context, msg Message) error {
	if s.dialer.Host == "" || s.dialer.Username == "" || s.dialer.Password == "" || s.from == "" || msg.To == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}
