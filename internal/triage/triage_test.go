package triage

// Shared in-memory fakes for the pipeline tests.

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/casavoz/casavoz/internal/providers"
	"github.com/casavoz/casavoz/internal/store"
)

func mustUUID(s string) uuid.UUID { return uuid.MustParse(s) }

type fakeTenantStore struct {
	byPhone map[string]*store.Tenant
	errOn   map[string]error // candidate → lookup error
	calls   []string
}

func (f *fakeTenantStore) FindByPhone(ctx context.Context, phone string) (*store.Tenant, error) {
	f.calls = append(f.calls, phone)
	if err, ok := f.errOn[phone]; ok {
		return nil, err
	}
	if t, ok := f.byPhone[phone]; ok {
		return t, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeTenantStore) ListDueOn(ctx context.Context, day int) ([]store.Tenant, error) {
	return nil, nil
}

func (f *fakeTenantStore) Ping(ctx context.Context) error { return nil }

type fakeMessageStore struct {
	entries []*store.MessageLogEntry
	failErr error
}

func (f *fakeMessageStore) Append(ctx context.Context, entry *store.MessageLogEntry) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

type sentNotification struct {
	to   string
	body string
}

type fakeNotifier struct {
	sent    []sentNotification
	failErr error
}

func (f *fakeNotifier) Name() string { return "fake" }

func (f *fakeNotifier) Send(ctx context.Context, to, body string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, sentNotification{to: to, body: body})
	return nil
}

// fakeProvider returns a canned completion or error per call.
type fakeProvider struct {
	content string
	err     error
	chat    func(req providers.ChatRequest) (*providers.ChatResponse, error)
}

func (f *fakeProvider) Name() string         { return "fake" }
func (f *fakeProvider) DefaultModel() string { return "fake-model" }

func (f *fakeProvider) Chat(ctx context.Context, req providers.ChatRequest) (*providers.ChatResponse, error) {
	if f.chat != nil {
		return f.chat(req)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &providers.ChatResponse{Content: f.content, FinishReason: "stop"}, nil
}

var errStoreDown = errors.New("store unavailable")

func testTenant() *store.Tenant {
	return &store.Tenant{
		ID:    mustUUID("018f4a7e-0000-7000-8000-000000000001"),
		Name:  "María García",
		Phone: "+528112345678",
		Property: store.Property{
			ID:            mustUUID("018f4a7e-0000-7000-8000-000000000002"),
			Address:       "Av. Reforma 123, CDMX",
			MonthlyRent:   8500,
			RentDueDay:    5,
			LandlordName:  "Don Roberto",
			LandlordPhone: "+525599887766",
		},
	}
}
