package services

import (
	"context"
	"fmt"
	"strings"

	"home-flavours/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/romana/rlog"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends plain-text mail through Amazon SES
type SESMailer struct {
	client sesAPI
	sender string
}

func NewSESMailer(ctx context.Context, region, sender string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.sender),
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}
	return nil
}

// LogMailer only logs outgoing mail. Used when SES is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	rlog.Infof("Mail to %s: %s", to, subject)
	return nil
}

func orderConfirmation(order *models.Order) (subject, body string) {
	subject = fmt.Sprintf("Home Flavours order #%d confirmed", order.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order.\n\n", order.Customer.FullName)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x %s  Rs %s\n", item.Quantity, item.Name, item.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: Rs %s (%s)\n", order.TotalAmount.StringFixed(2), order.PaymentMethod)
	fmt.Fprintf(&b, "Delivery on %s to %s\n", formatDate(order.DeliveryDate), order.DeliveryAddress)
	return subject, b.String()
}
