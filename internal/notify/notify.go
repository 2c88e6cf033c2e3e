// Package notify sends outbound messages to landlords and tenants.
// Sends are best-effort from the caller's perspective: the triage pipeline
// logs failures and never lets them reach the sender-facing reply.
package notify

import "context"

// Notifier delivers one message to one recipient identity.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
	Name() string
}
