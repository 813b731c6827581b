package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
)

type sendGridEmailService struct {
	apiKey string
	from   *mail.Email
}

func NewSendGridEmailService(apiKey, fromEmail string) EmailService {
	return &sendGridEmailService{
		apiKey: apiKey,
		from:   mail.NewEmail("Gearbook Rentals", fromEmail),
	}
}

func (s *sendGridEmailService) send(ctx context.Context, toEmail, subject, plainText, htmlContent string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", toEmail), plainText, htmlContent)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendBookingConfirmation(ctx context.Context, toEmail string, b *domain.Booking) error {
	subject := fmt.Sprintf("Booking confirmed: %s", b.Reference)
	plainText := fmt.Sprintf(
		"Your rental is confirmed.\nReference: %s\nDates: %s to %s\nQuantity: %d\nTotal charged: $%s (deposit $%s due at pickup)",
		b.Reference, b.StartDate, b.EndDate, b.Quantity, b.TotalAmount.StringFixed(2), b.DamageDeposit.StringFixed(2))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Your rental is confirmed</h2>
				<p>Reference: <strong>%s</strong></p>
				<p>Dates: %s to %s (quantity %d)</p>
				<p>Total charged: <strong>$%s</strong></p>
				<p>Refundable damage deposit of $%s is due at pickup.</p>
			</body>
		</html>
	`, b.Reference, b.StartDate, b.EndDate, b.Quantity, b.TotalAmount.StringFixed(2), b.DamageDeposit.StringFixed(2))
	return s.send(ctx, toEmail, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendBookingCancellation(ctx context.Context, toEmail string, b *domain.Booking, refund decimal.Decimal) error {
	subject := fmt.Sprintf("Booking cancelled: %s", b.Reference)
	plainText := fmt.Sprintf(
		"Your booking %s (%s to %s) has been cancelled.\nRefund issued: $%s",
		b.Reference, b.StartDate, b.EndDate, refund.StringFixed(2))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking cancelled</h2>
				<p>Reference: <strong>%s</strong></p>
				<p>Dates: %s to %s</p>
				<p>Refund issued: <strong>$%s</strong></p>
			</body>
		</html>
	`, b.Reference, b.StartDate, b.EndDate, refund.StringFixed(2))
	return s.send(ctx, toEmail, subject, plainText, htmlContent)
}
