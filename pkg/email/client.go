package email

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/fedegimenez/amaro-backend/pkg/config"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
)

var (
	errAPIKeyRequired = errors.New("sendgrid api key is required")
	errFromRequired   = errors.New("sendgrid from address is required")
	errLoggerRequired = errors.New("sendgrid logger is required")
)

// Attachment is an inline file sent with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single transactional email.
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	PlainBody   string
	Attachments []Attachment
}

// Sender is the surface notification services depend on.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client wraps the SendGrid API with the store's from identity.
type Client struct {
	send   *sendgrid.Client
	from   *mail.Email
	logger *logger.Logger
}

// NewClient validates credentials and builds the SendGrid wrapper.
func NewClient(cfg config.SendgridConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	fromAddr := strings.TrimSpace(cfg.DefaultFrom)
	if fromAddr == "" {
		return nil, errFromRequired
	}

	return &Client{
		send:   sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(cfg.FromName, fromAddr),
		logger: logg,
	}, nil
}

// Send delivers one message through SendGrid.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient address is required")
	}

	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(c.from, msg.Subject, to, msg.PlainBody, msg.HTMLBody)

	for _, att := range msg.Attachments {
		attachment := mail.NewAttachment()
		attachment.SetFilename(att.Filename)
		attachment.SetType(att.ContentType)
		attachment.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	resp, err := c.send.SendWithContext(ctx, message)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send email")
	}
	if resp.StatusCode >= 400 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("sendgrid returned status %d", resp.StatusCode))
	}

	ctx = c.logger.WithField(ctx, "email_subject", msg.Subject)
	c.logger.Info(ctx, "email delivered")
	return nil
}
