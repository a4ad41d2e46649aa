package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (c SMTPConfig) addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// SendText sends a plain-text email.
func SendText(cfg SMTPConfig, to, subject, body string) error {
	return send(cfg, to, subject, "text/plain; charset=UTF-8", body)
}

// SendHTML sends an HTML email.
func SendHTML(cfg SMTPConfig, to, subject, htmlBody string) error {
	return send(cfg, to, subject, "text/html; charset=UTF-8", htmlBody)
}

func send(cfg SMTPConfig, to, subject, contentType, body string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(body)

	var a smtp.Auth
	if cfg.User != "" {
		a = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	return smtp.SendMail(cfg.addr(), a, cfg.From, []string{to}, []byte(b.String()))
}
