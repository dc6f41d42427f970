package util

import (
	"errors"

	"gopkg.in/gomail.v2"
)

// MailSender delivers plain text mail.
type MailSender interface {
	Enabled() bool
	Send(to []string, subject string, body string) error
}

// Mailer sends plain text mail through one SMTP account.
type Mailer struct {
	Host           string
	Port           int
	SenderName     string
	SenderEmail    string
	SenderPassword string
}

func (mailer Mailer) Enabled() bool {
	return mailer.Host != "" && mailer.SenderEmail != ""
}

func (mailer Mailer) Send(to []string, subject string, body string) error {
	if len(to) == 0 {
		return errors.New("mail has no recipients")
	}

	message := gomail.NewMessage()
	message.SetAddressHeader("From", mailer.SenderEmail, mailer.SenderName)
	message.SetHeader("To", to...)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := gomail.NewDialer(mailer.Host, mailer.Port, mailer.SenderEmail, mailer.SenderPassword)

	return dialer.DialAndSend(message)
}
