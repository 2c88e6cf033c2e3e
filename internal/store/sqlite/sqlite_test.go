package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/casavoz/casavoz/internal/store"
)

func openTestStores(t *testing.T) *store.Stores {
	t.Helper()
	s, err := NewStores(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStores: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTenant(t *testing.T, s *store.Stores, name, phone string) *store.Tenant {
	t.Helper()
	ts := s.Tenants.(*TenantStore)

	propID := uuid.New()
	if _, err := ts.db.Exec(`
		INSERT INTO properties (id, address, monthly_rent, rent_due_day, landlord_name, landlord_phone)
		VALUES (?, ?, ?, ?, ?, ?)`,
		propID.String(), "Av. Juárez 10", 7500.0, 5, "Don Pedro", "+525511122233"); err != nil {
		t.Fatalf("seed property: %v", err)
	}

	tenantID := uuid.New()
	if _, err := ts.db.Exec(`
		INSERT INTO tenants (id, name, phone, property_id)
		VALUES (?, ?, ?, ?)`,
		tenantID.String(), name, phone, propID.String()); err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	return &store.Tenant{ID: tenantID, Name: name, Phone: phone}
}

func TestFindByPhone(t *testing.T) {
	s := openTestStores(t)
	seeded := seedTenant(t, s, "María", "+528112345678")

	got, err := s.Tenants.FindByPhone(context.Background(), "+528112345678")
	if err != nil {
		t.Fatalf("FindByPhone: %v", err)
	}
	if got.ID != seeded.ID || got.Name != "María" {
		t.Errorf("FindByPhone = %+v, want the seeded tenant", got)
	}
	if got.Property.MonthlyRent != 7500 || got.Property.RentDueDay != 5 {
		t.Errorf("property not joined: %+v", got.Property)
	}
	if got.Property.LandlordPhone != "+525511122233" {
		t.Errorf("LandlordPhone = %q", got.Property.LandlordPhone)
	}
}

func TestFindByPhone_NotFound(t *testing.T) {
	s := openTestStores(t)

	_, err := s.Tenants.FindByPhone(context.Background(), "+520000000000")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindByPhone_Ambiguous(t *testing.T) {
	s := openTestStores(t)
	seedTenant(t, s, "María", "+528112345678")
	seedTenant(t, s, "Mariana", "+528112345678")

	_, err := s.Tenants.FindByPhone(context.Background(), "+528112345678")
	if !errors.Is(err, store.ErrAmbiguous) {
		t.Fatalf("err = %v, want ErrAmbiguous", err)
	}
}

func TestListDueOn(t *testing.T) {
	s := openTestStores(t)
	seedTenant(t, s, "Zoe", "+528100000001")
	seedTenant(t, s, "Ana", "+528100000002")

	got, err := s.Tenants.ListDueOn(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListDueOn: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Ordered by name.
	if got[0].Name != "Ana" || got[1].Name != "Zoe" {
		t.Errorf("order = [%s %s], want [Ana Zoe]", got[0].Name, got[1].Name)
	}

	none, err := s.Tenants.ListDueOn(context.Background(), 28)
	if err != nil {
		t.Fatalf("ListDueOn(28): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len = %d, want 0 for a day with no rent due", len(none))
	}
}

func TestAppendMessage(t *testing.T) {
	s := openTestStores(t)
	tenant := seedTenant(t, s, "María", "+528112345678")

	id, _ := uuid.NewV7()
	entry := &store.MessageLogEntry{
		ID:             id,
		TenantID:       tenant.ID,
		Direction:      store.DirectionIncoming,
		Body:           "hay una fuga",
		Category:       "URGENT",
		ReplyText:      "He notificado a tu casero.",
		NeedsAttention: true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Messages.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append: %v", err)
	}

	ms := s.Messages.(*MessageStore)
	var body, category string
	var needs bool
	err := ms.db.QueryRow(
		`SELECT message_body, category, needs_landlord_attention FROM messages WHERE id = ?`,
		id.String()).Scan(&body, &category, &needs)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if body != "hay una fuga" || category != "URGENT" || !needs {
		t.Errorf("stored (%q, %q, %v), want the appended entry", body, category, needs)
	}
}
