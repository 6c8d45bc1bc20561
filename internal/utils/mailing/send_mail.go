package mailing

import (
	"Foodgram-Backend/internal/utils"
	"io"
	"strconv"

	"gopkg.in/gomail.v2"
)

type (
	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	Attachment struct {
		Filename string
		Content  []byte
	}

	Mailer interface {
		SendMail(toEmail string, subject string, body string, attachments ...Attachment) error
	}

	smtpMailer struct {
		config MailConfig
	}
)

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

func NewMailer() Mailer {
	return &smtpMailer{config: LoadMailConfig()}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string, attachments ...Attachment) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/plain", body)
	for _, a := range attachments {
		content := a.Content
		mailer.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}
