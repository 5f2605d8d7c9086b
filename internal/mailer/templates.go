package mailer

import "fmt"

func orderConfirmationSubject(bookTitle string) string {
	return fmt.Sprintf("Your Book Report for %q is Being Processed", bookTitle)
}

func orderConfirmationHTML(bookTitle string, isRush bool) string {
	deliveryTime := "24 hours"
	if isRush {
		deliveryTime = "1 hour"
	}

	return fmt.Sprintf(`<div>
  <h1>Thank you for your order!</h1>
  <p>We're working on your book report for %q right now.</p>
  <p>You can expect it to be delivered to this email within %s.</p>
  <p>If you have any questions, simply reply to this email.</p>
</div>`, bookTitle, deliveryTime)
}

func reportDeliverySubject(bookTitle string) string {
	return fmt.Sprintf("Your Book Report for %q is Ready!", bookTitle)
}

func reportDeliveryHTML(bookTitle, reportText string) string {
	return fmt.Sprintf(`<div>
  <h1>Your Book Report is Ready!</h1>
  <p>Here is your completed book report for %q:</p>
  <div style="border: 1px solid #eee; padding: 20px; margin: 20px 0; white-space: pre-wrap;">%s</div>
  <p>We hope this report helps you! If you need any revisions or have questions, simply reply to this email.</p>
</div>`, bookTitle, reportText)
}
