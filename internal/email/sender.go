// Package email is the outbound delivery layer: a single-send gateway
// contract with SES, SMTP and HTTP-API implementations, plus the liquid
// personalization engine and the confirmation-email composer.
package email

import "context"

// Email is a single outbound message. Both renditions are always set;
// which one a recipient sees is up to their mail client.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single email. Implementations do not retry; a returned
// error means this delivery failed and the caller decides what that means
// for the batch.
type Sender interface {
	Send(ctx context.Context, msg Email) error
}
