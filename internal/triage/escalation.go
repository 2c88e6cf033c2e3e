package triage

import (
	"context"
	"fmt"

	"github.com/casavoz/casavoz/internal/notify"
	"github.com/casavoz/casavoz/internal/store"
)

// Dispatcher sends landlord notifications for urgent messages.
type Dispatcher struct {
	notifier notify.Notifier
}

func NewDispatcher(notifier notify.Notifier) *Dispatcher {
	return &Dispatcher{notifier: notifier}
}

// Dispatch notifies the landlord iff the reply is flagged urgent and a
// landlord contact exists. It reports whether a send was attempted and any
// send error; the caller logs the error and moves on — escalation is
// best-effort and decoupled from the sender-facing reply.
func (d *Dispatcher) Dispatch(ctx context.Context, tenant *store.Tenant, body string, reply StructuredReply) (sent bool, err error) {
	if !reply.NeedsAttention || tenant.Property.LandlordPhone == "" {
		return false, nil
	}
	if d.notifier == nil {
		return false, fmt.Errorf("no notification transport configured")
	}

	text := fmt.Sprintf("🚨 %s: %q", tenant.Name, body)
	if err := d.notifier.Send(ctx, tenant.Property.LandlordPhone, text); err != nil {
		return true, err
	}
	return true, nil
}
