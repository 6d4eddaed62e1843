// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

// Package mailer sends transactional email for the contact workflow.
// All sends are best-effort: a mail failure is logged and never blocks
// the request that triggered it.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"procomm/internal/models"
)

// sendTimeout bounds a single SMTP conversation.
const sendTimeout = 15 * time.Second

// Mailer sends contact-form notifications over SMTP.
// A nil *Mailer is valid and silently drops every send, which lets the
// app run without SMTP configured.
type Mailer struct {
	client       *mail.Client
	from         string
	contactInbox string
}

// New creates a Mailer. Returns (nil, nil) when host is empty so the
// caller can keep a nil mailer without special-casing configuration.
func New(host string, port int, username, password, from, contactInbox string) (*Mailer, error) {
	if host == "" {
		return nil, nil
	}

	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &Mailer{
		client:       client,
		from:         from,
		contactInbox: contactInbox,
	}, nil
}

// SendContactNotification notifies the site inbox about a new contact
// message.
func (m *Mailer) SendContactNotification(ctx context.Context, msg *models.ContactMessage) {
	if m == nil {
		return
	}

	body := fmt.Sprintf(
		"New contact message\n\nFrom: %s <%s>\nSubject: %s\n\n%s\n",
		msg.Name, msg.Email, msg.Subject, msg.Message,
	)
	m.send(ctx, m.contactInbox, "[ProComm] New contact message: "+msg.Subject, body)
}

// SendContactAck confirms receipt to the visitor who submitted the form.
func (m *Mailer) SendContactAck(ctx context.Context, msg *models.ContactMessage) {
	if m == nil {
		return
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nThank you for reaching out. We received your message and will get back to you soon.\n\nYour message:\n%s\n\nProComm Media\n",
		msg.Name, msg.Message,
	)
	m.send(ctx, msg.Email, "We received your message", body)
}

// SendReply delivers an administrator's reply to the original sender.
func (m *Mailer) SendReply(ctx context.Context, msg *models.ContactMessage, reply string) {
	if m == nil {
		return
	}

	body := fmt.Sprintf(
		"Hello %s,\n\n%s\n\n---\nIn reply to your message:\n%s\n\nProComm Media\n",
		msg.Name, reply, msg.Message,
	)
	m.send(ctx, msg.Email, "Re: "+msg.Subject, body)
}

// send composes and delivers one plain-text message, logging failures.
func (m *Mailer) send(ctx context.Context, to, subject, body string) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		slog.Warn("mail from address invalid", "from", m.from, "error", err)
		return
	}
	if err := msg.To(to); err != nil {
		slog.Warn("mail to address invalid", "to", to, "error", err)
		return
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Warn("mail send failed", "to", to, "subject", subject, "error", err)
		return
	}
	slog.Debug("mail sent", "to", to, "subject", subject)
}
