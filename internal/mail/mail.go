// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package mail sends HTML documents over SMTP with a markdown plain-text
// alternative.
package mail

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	gomail "github.com/wneessen/go-mail"

	xglog "github.com/ManuGH/churchsync/internal/log"
)

// Config describes the SMTP relay and envelope.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	// TLS is "starttls" (default), "tls" or "none".
	TLS string
}

// Message is one document to send.
type Message struct {
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTPSender sends via go-mail.
type SMTPSender struct {
	cfg       Config
	converter *md.Converter
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg, converter: md.NewConverter("", true, nil)}
}

// Build assembles the MIME message without sending it.
func (s *SMTPSender) Build(m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("mail: from %q: %w", s.cfg.From, err)
	}
	if err := msg.To(s.cfg.To...); err != nil {
		return nil, fmt.Errorf("mail: to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, m.HTML)

	plain, err := s.converter.ConvertString(m.HTML)
	if err != nil {
		return nil, fmt.Errorf("mail: plain-text alternative: %w", err)
	}
	msg.AddAlternativeString(gomail.TypeTextPlain, plain)
	return msg, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := s.Build(m)
	if err != nil {
		return err
	}

	opts := []gomail.Option{gomail.WithPort(s.cfg.Port)}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	switch strings.ToLower(s.cfg.TLS) {
	case "tls":
		opts = append(opts, gomail.WithSSL())
	case "none":
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send %q: %w", m.Subject, err)
	}

	xglog.FromContext(ctx).Info().
		Str(xglog.FieldComponent, "mail").
		Str(xglog.FieldEvent, "mail.sent").
		Str("subject", m.Subject).
		Strs("to", s.cfg.To).
		Msg("report mailed")
	return nil
}
