// Package mailer sends templated transactional email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"

	"sunseeker/internal/models"
	"sunseeker/internal/observability"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// InlineImage is an optional image embedded into the notification email body.
type InlineImage struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Notification carries everything needed to render and send the
// request-received email, including the one-time verification link.
type Notification struct {
	To         string
	Name       string
	Request    *models.Request
	VerifyLink string
	Caption    string
	Image      *InlineImage
}

// Reply carries the admin's response to the original request.
type Reply struct {
	To      string
	Name    string
	Body    string
	Request *models.Request
}

// Mailer is the outbound email capability consumed by the lifecycle engine.
// Implementations return the message ID of the delivered email.
type Mailer interface {
	SendNotification(ctx context.Context, in Notification) (string, error)
	SendReply(ctx context.Context, in Reply) (string, error)
}

// SMTPConfig holds the SMTP transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers email through an SMTP relay using go-mail.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a mailer for the given SMTP settings.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// inlineImageCID is the Content-ID referenced by the notification template.
const inlineImageCID = "inline-image"

func (m *SMTPMailer) SendNotification(ctx context.Context, in Notification) (string, error) {
	html, err := renderNotification(notificationData{
		Name:       in.Name,
		Request:    in.Request,
		VerifyLink: in.VerifyLink,
		Caption:    in.Caption,
		HasImage:   in.Image != nil,
		ImageCID:   inlineImageCID,
	})
	if err != nil {
		return "", fmt.Errorf("render notification email: %w", err)
	}

	msg, err := m.newMessage(in.To, "Sunseeker - Your Request Has Been Received", html)
	if err != nil {
		return "", err
	}
	if in.Image != nil {
		if err := msg.EmbedReader(inlineImageCID, bytes.NewReader(in.Image.Content),
			mail.WithFileContentType(mail.ContentType(in.Image.ContentType))); err != nil {
			return "", fmt.Errorf("embed inline image: %w", err)
		}
	}

	return m.send(ctx, "notification", msg)
}

func (m *SMTPMailer) SendReply(ctx context.Context, in Reply) (string, error) {
	html, err := renderReply(replyData{
		Name:    in.Name,
		Body:    in.Body,
		Request: in.Request,
	})
	if err != nil {
		return "", fmt.Errorf("render reply email: %w", err)
	}

	msg, err := m.newMessage(in.To, "Sunseeker - Response to Your Request", html)
	if err != nil {
		return "", err
	}

	return m.send(ctx, "reply", msg)
}

func (m *SMTPMailer) newMessage(to, subject, html string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetMessageIDWithValue(uuid.NewString())
	msg.SetBodyString(mail.TypeTextHTML, html)
	return msg, nil
}

func (m *SMTPMailer) send(ctx context.Context, kind string, msg *mail.Msg) (string, error) {
	ctx, span := observability.TraceSMTPDelivery(ctx, kind)
	defer span.End()

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		span.RecordError(err)
		return "", err
	}
	return msg.GetMessageID(), nil
}
