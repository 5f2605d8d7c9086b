package mailer

import (
	"context"

	"github.com/resend/resend-go/v2"
)

// Mailer sends transactional mail through the Resend API
type Mailer struct {
	client *resend.Client
	from   string
}

// New creates new Mailer instance
func New(apiKey, from string) *Mailer {
	return &Mailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// SendOrderConfirmation sends intake confirmation with the promised delivery window
func (m *Mailer) SendOrderConfirmation(ctx context.Context, customerEmail, bookTitle string, isRush bool) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{customerEmail},
		Subject: orderConfirmationSubject(bookTitle),
		Html:    orderConfirmationHTML(bookTitle, isRush),
	})
	return err
}

// SendReportDelivery sends the finished report to the customer
func (m *Mailer) SendReportDelivery(ctx context.Context, customerEmail, bookTitle, reportText string) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{customerEmail},
		Subject: reportDeliverySubject(bookTitle),
		Html:    reportDeliveryHTML(bookTitle, reportText),
	})
	return err
}
