// Package notify sends the registration welcome e-mail through Amazon SES.
package notify

import (
	"context"
	"fmt"

	"apex-business/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailSender is the subset of the SES client we use.
type EmailSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Notifier sends welcome mail. A nil Notifier or one built with NewDisabled does nothing.
type Notifier struct {
	client    EmailSender
	fromEmail string
	logger    logger.Logger
}

// NewSESNotifier loads the default AWS credential chain for region.
func NewSESNotifier(ctx context.Context, region, fromEmail string, log logger.Logger) (*Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return New(ses.NewFromConfig(cfg), fromEmail, log), nil
}

func New(client EmailSender, fromEmail string, log logger.Logger) *Notifier {
	return &Notifier{
		client:    client,
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// NewDisabled returns a Notifier that skips delivery.
func NewDisabled(log logger.Logger) *Notifier {
	return &Notifier{logger: log}
}

// SendWelcome greets a newly registered user.
func (n *Notifier) SendWelcome(ctx context.Context, name, email string) error {
	if n == nil || n.client == nil {
		return nil
	}

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String("Welcome to ApexBusiness"),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(welcomeBody(name)),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	out, err := n.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	n.logger.Info("Welcome email sent", map[string]interface{}{
		"messageId": aws.ToString(out.MessageId),
	})
	return nil
}

func welcomeBody(name string) string {
	if name == "" {
		name = "founder"
	}
	return fmt.Sprintf("Hi %s,\n\nYour ApexBusiness workspace is ready. Describe your idea and "+
		"ApexAI will validate it, size the market and draft your plan.\n\nThe ApexBusiness team", name)
}
