// Package phone canonicalizes raw sender identifiers into candidate lookup keys.
//
// Inbound numbers arrive in inconsistent formats: the messaging gateway prefixes
// a channel tag ("whatsapp:+5281..."), manual data entry stores numbers with or
// without the country code, sometimes with internal spaces. Exact-match lookup
// on the raw value alone misses real tenants, so resolution tries an ordered
// set of normalized variants and takes the first store hit.
package phone

import (
	"errors"
	"strings"
)

// TransportPrefix is the channel tag the messaging gateway puts on sender IDs.
const TransportPrefix = "whatsapp:"

// ErrEmptyIdentifier signals that no usable sender identifier was supplied;
// no store lookup should be attempted.
var ErrEmptyIdentifier = errors.New("phone: empty sender identifier")

// Normalizer derives candidate phone representations for a country code.
type Normalizer struct {
	countryCode string // canonical prefix, e.g. "+52"
}

// NewNormalizer creates a Normalizer for the given canonical country code.
func NewNormalizer(countryCode string) *Normalizer {
	return &Normalizer{countryCode: countryCode}
}

// Candidates returns the ordered, deduplicated list of lookup keys for a raw
// sender identifier. Order matters: the resolver tries them front to back and
// the first store hit wins.
//
// Variants, in order:
//  1. the raw value with the transport prefix stripped
//  2. the same value with the country code removed
//  3. the canonical country-code-prefixed form (always, even if the raw value
//     already carried the prefix)
//  4. the value with internal whitespace removed
func (n *Normalizer) Candidates(raw string) ([]string, error) {
	stripped := strings.TrimSpace(strings.TrimPrefix(raw, TransportPrefix))
	if stripped == "" {
		return nil, ErrEmptyIdentifier
	}

	bare := strings.ReplaceAll(stripped, n.countryCode, "")
	canonical := n.countryCode + strings.ReplaceAll(bare, "+", "")
	compact := strings.ReplaceAll(stripped, " ", "")

	variants := []string{stripped, bare, canonical, compact}

	out := make([]string, 0, len(variants))
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}
