package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// NopMailer descarta tudo (SMTP não configurado).
type NopMailer struct{}

func (NopMailer) Send(context.Context, Message) error { return nil }

func NewMailer(cfg config.SMTP) Mailer {
	if !cfg.Enabled() {
		return NopMailer{}
	}
	return NewSMTPMailer(cfg)
}
