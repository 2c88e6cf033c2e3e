package triage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/casavoz/casavoz/internal/store"
)

// Resolver looks up a tenant by trying candidate phone keys in order.
type Resolver struct {
	tenants store.TenantStore
}

func NewResolver(tenants store.TenantStore) *Resolver {
	return &Resolver{tenants: tenants}
}

// Resolve tries each candidate against the tenant directory and returns the
// first single-record hit. Per-candidate lookup errors (store unavailable,
// ambiguous matches, transient faults) count as non-matches and never abort
// the whole resolution. Returns nil when every candidate misses.
func (r *Resolver) Resolve(ctx context.Context, candidates []string) *store.Tenant {
	for _, candidate := range candidates {
		tenant, err := r.tenants.FindByPhone(ctx, candidate)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				slog.Debug("tenant lookup failed, trying next candidate",
					"candidate", candidate, "error", err)
			}
			continue
		}
		return tenant
	}
	return nil
}
