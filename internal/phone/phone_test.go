package phone

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCandidates_Order(t *testing.T) {
	n := NewNormalizer("+52")

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "transport prefix with country code",
			raw:  "whatsapp:+528112345678",
			want: []string{"+528112345678", "8112345678"},
		},
		{
			name: "no country code gains canonical variant",
			raw:  "8112345678",
			want: []string{"8112345678", "+528112345678"},
		},
		{
			name: "internal spaces collapse in last variant",
			raw:  "+52 81 1234 5678",
			want: []string{"+52 81 1234 5678", " 81 1234 5678", "+528112345678"},
		},
		{
			name: "bare plus-less international form",
			raw:  "whatsapp:528112345678",
			want: []string{"528112345678", "+52528112345678"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Candidates(tt.raw)
			if err != nil {
				t.Fatalf("Candidates(%q) error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Candidates(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCandidates_CanonicalAlwaysPresent(t *testing.T) {
	n := NewNormalizer("+52")

	raws := []string{"8112345678", "whatsapp:8112345678", "81 1234 5678", "+528112345678"}
	for _, raw := range raws {
		got, err := n.Candidates(raw)
		if err != nil {
			t.Fatalf("Candidates(%q) error: %v", raw, err)
		}
		found := false
		for _, c := range got {
			if strings.HasPrefix(c, "+52") {
				found = true
			}
		}
		if !found {
			t.Errorf("Candidates(%q) = %v, missing a +52-prefixed variant", raw, got)
		}
	}
}

func TestCandidates_Empty(t *testing.T) {
	n := NewNormalizer("+52")

	for _, raw := range []string{"", "whatsapp:", "   "} {
		if _, err := n.Candidates(raw); !errors.Is(err, ErrEmptyIdentifier) {
			t.Errorf("Candidates(%q) error = %v, want ErrEmptyIdentifier", raw, err)
		}
	}
}

func TestCandidates_FirstIsStrippedRaw(t *testing.T) {
	n := NewNormalizer("+52")

	got, err := n.Candidates("whatsapp:+528112345678")
	if err != nil {
		t.Fatalf("Candidates error: %v", err)
	}
	if got[0] != "+528112345678" {
		t.Errorf("first candidate = %q, want prefix-stripped raw %q", got[0], "+528112345678")
	}
}
