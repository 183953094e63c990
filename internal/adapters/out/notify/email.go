// Package notify holds the notification channels: email through Amazon SES
// and SMS through an HTTP gateway.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const charsetUTF8 = "UTF-8"

// SESClient is the subset of *sesv2.Client the email channel uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailChannel sends notifications as SES simple emails.
type EmailChannel struct {
	client SESClient
	from   string
	logger *slog.Logger
}

func NewEmailChannel(client SESClient, from string, logger *slog.Logger) *EmailChannel {
	return &EmailChannel{
		client: client,
		from:   from,
		logger: logger.With("channel", "email"),
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Address(u *user.User) string { return u.Email() }

func (c *EmailChannel) Accepts(prefs user.NotificationPreferences) bool { return prefs.Email }

func (c *EmailChannel) Send(ctx context.Context, address string, msg intent.Message) error {
	body := &types.Body{
		Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String(charsetUTF8)},
	}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charsetUTF8)}
	}

	out, err := c.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.from),
		Destination:      &types.Destination{ToAddresses: []string{address}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charsetUTF8)},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}

	c.logger.DebugContext(ctx, "email accepted by SES", "messageId", aws.ToString(out.MessageId))
	return nil
}
