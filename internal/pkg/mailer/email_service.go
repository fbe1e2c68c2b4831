package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPaymentReceipt(toEmail, planName string, credits int64, orderId string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendPaymentReceipt(toEmail, planName string, credits int64, orderId string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your ImageStudio Purchase")

	creditLine := fmt.Sprintf("%d credits have been added to your account.", credits)
	if credits == 0 {
		creditLine = "Your account has been upgraded to unlimited generations."
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for your purchase!</h2>
			<p>Your payment for the <b>%s</b> plan was confirmed.</p>
			<p>%s</p>
			<p style="color: #888;">Order reference: %s</p>
		</div>
	`, planName, creditLine, orderId)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send receipt to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Receipt sent to %s\n", toEmail)
	return nil
}
