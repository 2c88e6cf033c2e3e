// Package store defines the persistence boundary of the triage core: a
// read-only tenant directory and an append-only message log. Backends live in
// store/pg (managed, Postgres) and store/sqlite (standalone, local file).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no record matched the lookup key.
	ErrNotFound = errors.New("store: not found")
	// ErrAmbiguous means more than one record matched a key that must
	// identify exactly one. The resolver treats this as a non-match.
	ErrAmbiguous = errors.New("store: ambiguous match")
)

// Direction values for MessageLogEntry. The triage pipeline only writes
// incoming exchanges; outbound notifications are not journaled here.
const DirectionIncoming = "incoming"

// Property is the rental unit a tenant is attached to. Owned and maintained
// by the external management system; read-only to this service.
type Property struct {
	ID            uuid.UUID
	Address       string
	MonthlyRent   float64
	RentDueDay    int // day of month the rent falls due
	LandlordName  string
	LandlordPhone string
}

// Tenant is a registered renter with exactly one associated property.
type Tenant struct {
	ID       uuid.UUID
	Name     string
	Phone    string
	Property Property
}

// MessageLogEntry is one persisted inbound exchange: the tenant's message,
// the generated reply, and its classification. Append-only.
type MessageLogEntry struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Direction      string
	Body           string
	Category       string
	ReplyText      string
	NeedsAttention bool
	CreatedAt      time.Time
}

// TenantStore is the read-only tenant directory.
type TenantStore interface {
	// FindByPhone returns the single tenant whose stored phone exactly
	// matches the key. Zero matches → ErrNotFound; more than one →
	// ErrAmbiguous.
	FindByPhone(ctx context.Context, phone string) (*Tenant, error)

	// ListDueOn returns all tenants whose property rent falls due on the
	// given day of month. Used by the reminder scheduler.
	ListDueOn(ctx context.Context, day int) ([]Tenant, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
}

// MessageStore is the append-only message log.
type MessageStore interface {
	Append(ctx context.Context, entry *MessageLogEntry) error
}

// Stores aggregates all store implementations for one backend.
type Stores struct {
	Tenants  TenantStore
	Messages MessageStore

	closer func() error
}

// NewStores bundles store implementations with their shared close function.
func NewStores(tenants TenantStore, messages MessageStore, closer func() error) *Stores {
	return &Stores{Tenants: tenants, Messages: messages, closer: closer}
}

// Close releases the underlying database handle.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
