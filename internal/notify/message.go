package notify

import (
	"context"
	"errors"
)

// Message is a single outgoing e-mail.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// ErrInvalidMessage is returned when a message has no recipient or subject.
var ErrInvalidMessage = errors.New("invalid notification message")

// Validate checks that the message can be delivered.
func (m Message) Validate() error {
	if m.To == "" {
		return errors.Join(ErrInvalidMessage, errors.New("recipient is required"))
	}
	if m.Subject == "" {
		return errors.Join(ErrInvalidMessage, errors.New("subject is required"))
	}
	return nil
}

// Sender delivers a message to its recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f(ctx, msg).
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
