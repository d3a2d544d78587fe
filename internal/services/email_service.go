package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationEmail(email, firstName, link string) error
	SendReVerificationEmail(email, firstName, link string) error
	SendPasswordResetEmail(email, firstName, link string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendVerificationEmail(email, firstName, link string) error {
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Thank you for registering. Please confirm your email address by clicking the link below.</p>
		<p><a href="%s">Verify your account</a></p>
		<p>The link expires in 5 minutes. If it does, just follow it anyway and we will send you a new one.</p>
	`, firstName, link)

	return s.send(email, "Email Verification", body)
}

func (s *emailService) SendReVerificationEmail(email, firstName, link string) error {
	body := fmt.Sprintf(`
		<h2>Hello again, %s!</h2>
		<p>Your previous verification link expired. Here is a fresh one:</p>
		<p><a href="%s">Verify your account</a></p>
	`, firstName, link)

	return s.send(email, "RE-VERIFY YOUR ACCOUNT", body)
}

func (s *emailService) SendPasswordResetEmail(email, firstName, link string) error {
	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>Hi %s, we received a request to reset the password for your account.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, firstName, link)

	return s.send(email, "Kindly reset your password", body)
}

func (s *emailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q email: %w", subject, err)
	}
	return nil
}
