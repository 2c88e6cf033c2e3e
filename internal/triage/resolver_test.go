package triage

import (
	"context"
	"testing"

	"github.com/casavoz/casavoz/internal/store"
)

func TestResolve_FirstMatchWins(t *testing.T) {
	tenant := testTenant()
	ts := &fakeTenantStore{byPhone: map[string]*store.Tenant{
		"+528112345678": tenant,
	}}
	r := NewResolver(ts)

	got := r.Resolve(context.Background(), []string{"+528112345678", "8112345678"})
	if got != tenant {
		t.Fatalf("Resolve returned %v, want the stored tenant", got)
	}
	// The second candidate must not be tried after a hit.
	if len(ts.calls) != 1 {
		t.Errorf("lookup calls = %v, want exactly one", ts.calls)
	}
}

func TestResolve_LaterCandidateMatches(t *testing.T) {
	tenant := testTenant()
	ts := &fakeTenantStore{byPhone: map[string]*store.Tenant{
		"8112345678": tenant,
	}}
	r := NewResolver(ts)

	got := r.Resolve(context.Background(), []string{"whatsapp:+528112345678", "+528112345678", "8112345678"})
	if got != tenant {
		t.Fatalf("Resolve = %v, want match on third candidate", got)
	}
}

func TestResolve_LookupErrorIsNonMatch(t *testing.T) {
	tenant := testTenant()
	ts := &fakeTenantStore{
		byPhone: map[string]*store.Tenant{"8112345678": tenant},
		errOn:   map[string]error{"+528112345678": errStoreDown},
	}
	r := NewResolver(ts)

	got := r.Resolve(context.Background(), []string{"+528112345678", "8112345678"})
	if got != tenant {
		t.Fatalf("a failing candidate aborted resolution, got %v", got)
	}
}

func TestResolve_AllMiss(t *testing.T) {
	r := NewResolver(&fakeTenantStore{})
	if got := r.Resolve(context.Background(), []string{"+521234567890", "1234567890"}); got != nil {
		t.Fatalf("Resolve = %v, want nil for unknown sender", got)
	}
}
