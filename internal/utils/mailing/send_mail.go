package mailing

import (
	"fmt"
	"strconv"

	"github.com/zy538324/homegrubhub-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", emailConfig.SMTPEmail)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

// VerificationBody renders the email-verification message pointing at the
// frontend verify page.
func VerificationBody(name, token string) string {
	appURL := utils.GetConfig("APP_URL")
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>Welcome to HomeGrubHub. Verify your email by opening the link below:</p><p><a href="%s/verify?token=%s">Verify my email</a></p><p>The link expires in 24 hours.</p>`,
		name, appURL, token,
	)
}

// ResetPasswordBody renders the password-reset message.
func ResetPasswordBody(name, token string) string {
	appURL := utils.GetConfig("APP_URL")
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>We received a request to reset your HomeGrubHub password:</p><p><a href="%s/reset?token=%s">Reset my password</a></p><p>If you did not request this, ignore this email. The link expires in 30 minutes.</p>`,
		name, appURL, token,
	)
}
