package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/logger"
)

type sendgridEmailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &sendgridEmailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *sendgridEmailService) SendExpiryReminder(ctx context.Context, email, name string, rentalID int32, daysLeft int) error {
	subject := fmt.Sprintf("Your shelf rental ends in %d day(s)", daysLeft)
	plainText := fmt.Sprintf("Hi %s, rental #%d ends in %d day(s). Please prepare the final inventory handover.", name, rentalID, daysLeft)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Rental ending soon</h2>
				<p>Hi %s, your shelf rental <strong>#%d</strong> ends in <strong>%d day(s)</strong>.</p>
				<p>Please prepare the final inventory handover.</p>
			</body>
		</html>
	`, name, rentalID, daysLeft)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendgridEmailService) SendPaymentReminder(ctx context.Context, email, name string, rentalID int32) error {
	subject := "Your shelf rental is awaiting payment"
	plainText := fmt.Sprintf("Hi %s, rental #%d is waiting for payment. The shelf is held for you once payment arrives.", name, rentalID)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Payment outstanding</h2>
				<p>Hi %s, your shelf rental <strong>#%d</strong> is waiting for payment.</p>
				<p>The shelf is held for you once payment arrives.</p>
			</body>
		</html>
	`, name, rentalID)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendgridEmailService) SendClearanceNudge(ctx context.Context, email, name string, rentalID int32, stage domain.ClearanceStage) error {
	action := "take the next step"
	switch stage {
	case domain.ClearanceStagePaymentCompleted:
		action = "ship the remaining inventory back"
	case domain.ClearanceStageReturnShipped:
		action = "confirm receipt of the returned inventory"
	}
	subject := "Your shelf clearance needs attention"
	plainText := fmt.Sprintf("Hi %s, the clearance for rental #%d is waiting on you. Please %s.", name, rentalID, action)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Clearance waiting on you</h2>
				<p>Hi %s, the clearance for rental <strong>#%d</strong> has not moved in a while.</p>
				<p>Please %s.</p>
			</body>
		</html>
	`, name, rentalID, action)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendgridEmailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "Send", err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
