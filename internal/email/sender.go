package email

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"time"

	"coastline/villas/internal/config"
)

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPSender implements the Sender interface using Go's net/smtp package.
type SMTPSender struct {
	cfg  *config.Config
	auth smtp.Auth
	addr string
}

// NewSMTPSender creates a new SMTPSender.
// Without an SMTP host it falls back to a LoggingSender.
func NewSMTPSender(cfg *config.Config) Sender {
	if cfg.SmtpHost == "" {
		log.Println("SMTP host not configured, using logging email sender.")
		return &LoggingSender{}
	}

	auth := smtp.PlainAuth("", cfg.SmtpUsername, cfg.SmtpPassword, cfg.SmtpHost)
	addr := fmt.Sprintf("%s:%d", cfg.SmtpHost, cfg.SmtpPort)

	return &SMTPSender{
		cfg:  cfg,
		auth: auth,
		addr: addr,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	err := smtp.SendMail(s.addr, s.auth, msg.From, msg.To, msg.Raw(time.Now()))
	if err != nil {
		log.Printf("ERROR: Failed to send email via SMTP to %v: %v", msg.To, err)
		return fmt.Errorf("smtp error: %w", err)
	}
	log.Printf("Email sent via SMTP to %v (Subject: %s)", msg.To, msg.Subject)
	return nil
}

// LoggingSender just logs the message. Used when SMTP isn't configured.
type LoggingSender struct{}

func (s *LoggingSender) Send(ctx context.Context, msg *Message) error {
	log.Printf("--- Sending Email (Logged) ---")
	log.Printf("To: %v", msg.To)
	log.Printf("From: %s", msg.From)
	log.Printf("Subject: %s", msg.Subject)
	log.Println(msg.Body)
	log.Println("--- End Email ---")
	return nil
}
