// Package email dispatches the confirmed reminder reports over SMTP.
package email

import (
	"fmt"

	"gopkg.in/mail.v2"
)

// Sender delivers a drafted email to a single recipient.
type Sender interface {
	Send(to, subject, body string) error
}

// Client is an SMTP-backed Sender.
type Client struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewClient configures an SMTP client. No connection is made until Send.
func NewClient(host string, port int, username, password, from string) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers a plain-text email.
func (c *Client) Send(to, subject, body string) error {
	if c.host == "" {
		return fmt.Errorf("no SMTP host configured")
	}

	message := mail.NewMessage()
	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := mail.NewDialer(c.host, c.port, c.username, c.password)

	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("sending reminder to %s: %w", to, err)
	}
	return nil
}
