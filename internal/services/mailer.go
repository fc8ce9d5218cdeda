package services

import (
	"context"

	"gopkg.in/gomail.v2"
)

// Message is one notification: multipart text + HTML to a recipient list.
type Message struct {
	From    string
	To      []string
	ReplyTo []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a Message and reports per-send success or failure.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through a configured SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password}
}

func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To...)
	if len(msg.ReplyTo) > 0 {
		gm.SetHeader("Reply-To", msg.ReplyTo...)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	gm.AddAlternative("text/html", msg.HTML)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	return dialer.DialAndSend(gm)
}
