package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/entradahq/entrada/internal/models"
	pkglogger "github.com/entradahq/entrada/pkg/logger"
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendOrderReceipt(ctx context.Context, order *models.Order) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendOrderReceipt emails the buyer their order confirmation. The card
// number is masked down to its last four digits.
func (s *AWSSESEmailService) SendOrderReceipt(ctx context.Context, order *models.Order) error {
	maskedCard := pkglogger.MaskedCard(order.Payment.Card)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 4px; }
        .content { padding: 20px 0; }
        .row { display: flex; justify-content: space-between; padding: 4px 0; }
        .total { font-weight: bold; border-top: 1px solid #eee; padding-top: 8px; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Your Order Is Confirmed</h1>
        </div>
        <div class="content">
            <p>Thanks for your purchase! Here is your receipt.</p>
            <p><strong>Order:</strong> %s</p>
            <p><strong>Event:</strong> %s</p>
            <div class="row"><span>Tickets (x%d)</span><span>$%.2f</span></div>
            <div class="row"><span>Service fee</span><span>$%.2f</span></div>
            <div class="row total"><span>Total</span><span>$%.2f</span></div>
            <p>Paid with card %s.</p>
        </div>
        <div class="footer">
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>
`, order.ID, order.EventTitle, order.Qty, order.UnitPrice*float64(order.Qty), order.ServiceFee, order.Total, maskedCard)

	textBody := fmt.Sprintf(`Your Order Is Confirmed

Thanks for your purchase! Here is your receipt.

Order: %s
Event: %s
Tickets (x%d): $%.2f
Service fee: $%.2f
Total: $%.2f

Paid with card %s.

This is an automated message. Please do not reply to this email.
`, order.ID, order.EventTitle, order.Qty, order.UnitPrice*float64(order.Qty), order.ServiceFee, order.Total, maskedCard)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{order.UserEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(fmt.Sprintf("Your tickets for %s", order.EventTitle)),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send order receipt via SES",
			slog.String("order_id", order.ID),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("order receipt sent",
		slog.String("order_id", order.ID),
		slog.String("message_id", *result.MessageId))

	return nil
}
