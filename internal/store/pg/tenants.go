package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/casavoz/casavoz/internal/store"
)

// TenantStore implements store.TenantStore backed by Postgres.
type TenantStore struct {
	db *sql.DB
}

func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db}
}

const tenantColumns = `t.id, t.name, t.phone,
	p.id, p.address, p.monthly_rent, p.rent_due_day, p.landlord_name, p.landlord_phone`

func scanTenant(row interface{ Scan(...any) error }) (*store.Tenant, error) {
	var t store.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Phone,
		&t.Property.ID, &t.Property.Address, &t.Property.MonthlyRent,
		&t.Property.RentDueDay, &t.Property.LandlordName, &t.Property.LandlordPhone,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByPhone returns the single tenant with an exactly matching phone.
// Zero rows → store.ErrNotFound; more than one → store.ErrAmbiguous.
func (s *TenantStore) FindByPhone(ctx context.Context, phone string) (*store.Tenant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN properties p ON p.id = t.property_id
		WHERE t.phone = $1
		LIMIT 2`, phone)
	if err != nil {
		return nil, fmt.Errorf("query tenant by phone: %w", err)
	}
	defer rows.Close()

	var tenants []*store.Tenant
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
		return tenants[0], nil
	default:
		return nil, store.ErrAmbiguous
	}
}

// ListDueOn returns tenants whose property rent falls due on the given day.
func (s *TenantStore) ListDueOn(ctx context.Context, day int) ([]store.Tenant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN properties p ON p.id = t.property_id
		WHERE p.rent_due_day = $1
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
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *TenantStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
