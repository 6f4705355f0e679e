// Package domain defines operator notifications.
package domain

import "github.com/allisson/farmaggregator/internal/errors"

// AdminAlertSubject is the subject line of every admin alert email.
const AdminAlertSubject = "Farm aggregator admin alert"

// Message is a plain-text email to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// ErrMissingRecipient is returned when a message has no recipient address.
var ErrMissingRecipient = errors.Wrap(errors.ErrInvalidInput, "message recipient is required")

// NewAdminAlert builds the alert email sent to one administrator.
func NewAdminAlert(to, message string) Message {
	return Message{
		To:      to,
		Subject: AdminAlertSubject,
		Body:    "The farm aggregator reported an error that needs attention:\n\n" + message + "\n",
	}
}
