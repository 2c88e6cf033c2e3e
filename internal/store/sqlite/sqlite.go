// Package sqlite implements the tenant directory and message log on a local
// SQLite file (standalone mode — no Postgres required). The schema is created
// on open; migrations are only managed for the Postgres backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/casavoz/casavoz/internal/store"
)

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse uuid %q: %w", s, err)
	}
	return id, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS properties (
	id TEXT PRIMARY KEY,
	address TEXT NOT NULL,
	monthly_rent REAL NOT NULL DEFAULT 0,
	rent_due_day INTEGER NOT NULL DEFAULT 1,
	landlord_name TEXT NOT NULL DEFAULT '',
	landlord_phone TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tenants (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	property_id TEXT NOT NULL REFERENCES properties(id)
);
CREATE INDEX IF NOT EXISTS idx_tenants_phone ON tenants(phone);
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL REFERENCES tenants(id),
	direction TEXT NOT NULL,
	message_body TEXT NOT NULL,
	category TEXT NOT NULL,
	ai_response TEXT NOT NULL,
	needs_landlord_attention INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_tenant ON messages(tenant_id, created_at);
`

// NewStores opens (creating if needed) a SQLite-backed store bundle.
func NewStores(path string) (*store.Stores, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite is single-writer; serialize access through one conn.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return store.NewStores(&TenantStore{db: db}, &MessageStore{db: db}, db.Close), nil
}

// TenantStore implements store.TenantStore on SQLite.
type TenantStore struct {
	db *sql.DB
}

const tenantColumns = `t.id, t.name, t.phone,
	p.id, p.address, p.monthly_rent, p.rent_due_day, p.landlord_name, p.landlord_phone`

func scanTenant(rows *sql.Rows) (store.Tenant, error) {
	var t store.Tenant
	var tID, pID string
	err := rows.Scan(
		&tID, &t.Name, &t.Phone,
		&pID, &t.Property.Address, &t.Property.MonthlyRent,
		&t.Property.RentDueDay, &t.Property.LandlordName, &t.Property.LandlordPhone,
	)
	if err != nil {
		return t, err
	}
	if t.ID, err = parseUUID(tID); err != nil {
		return t, err
	}
	t.Property.ID, err = parseUUID(pID)
	return t, err
}

func (s *TenantStore) FindByPhone(ctx context.Context, phone string) (*store.Tenant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN properties p ON p.id = t.property_id
		WHERE t.phone = ?
		LIMIT 2`, phone)
	if err != nil {
		return nil, fmt.Errorf("query tenant by phone: %w", err)
	}
	defer rows.Close()

	var tenants []store.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}

	switch len(tenants) {
	case 0:
		return nil, store.ErrNotFound
	case 1:
		return &tenants[0], nil
	default:
		return nil, store.ErrAmbiguous
	}
}

func (s *TenantStore) ListDueOn(ctx context.Context, day int) ([]store.Tenant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN properties p ON p.id = t.property_id
		WHERE p.rent_due_day = ?
		ORDER BY t.name`, day)
	if err != nil {
		return nil, fmt.Errorf("query tenants due on day %d: %w", day, err)
	}
	defer rows.Close()

	var out []store.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TenantStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// MessageStore implements store.MessageStore on SQLite.
type MessageStore struct {
	db *sql.DB
}

func (s *MessageStore) Append(ctx context.Context, entry *store.MessageLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages
			(id, tenant_id, direction, message_body, category, ai_response, needs_landlord_attention, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(), entry.TenantID.String(), entry.Direction, entry.Body,
		entry.Category, entry.ReplyText, entry.NeedsAttention, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append message log entry: %w", err)
	}
	return nil
}
