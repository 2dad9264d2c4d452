package services

import (
	"fmt"
	"net/smtp"
)

// Mailer delivers outbound notification mail. Delivery is best-effort:
// callers send asynchronously and only log failures.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.from, to, subject, body))

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, msg)
}

// disabledMailer is used when SMTP is not configured; sends are dropped.
type disabledMailer struct{}

func NewDisabledMailer() Mailer { return disabledMailer{} }

func (disabledMailer) Send(to, subject, body string) error { return nil }
