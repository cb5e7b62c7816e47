package types

import "context"

// Message is an outbound HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers outbound email. Callers in this module treat delivery as
// fire-and-forget: a failed send is logged, never surfaced, because the
// record the email refers to has already been persisted.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
