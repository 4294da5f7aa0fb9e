package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Mailer sends notification email. The support and users services depend on
// this interface so tests can substitute a recorder.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SESMailer implements Mailer over Amazon SESv2.
type SESMailer struct {
	client *sesv2.Client
	sender string
}

func NewSESMailer(cfg aws.Config, sender string) *SESMailer {
	return &SESMailer{
		client: sesv2.NewFromConfig(cfg),
		sender: sender,
	}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
