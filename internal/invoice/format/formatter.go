package format

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultPrefix is used when a tenant has no invoice prefix configured.
	DefaultPrefix = "INV"

	// MinPadWidth is the floor for the fixed-width numeric suffix. Numbers
	// stay lexicographically sortable up to 999999 per tenant.
	MinPadWidth = 6
)

var prefixRe = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,11}$`)

// ValidPrefix reports whether prefix can appear in an invoice number.
// Callers that store tenant prefixes check this up front so issuance never
// trips over a prefix the formatter rejects.
func ValidPrefix(prefix string) bool {
	return prefixRe.MatchString(strings.ToUpper(strings.TrimSpace(prefix)))
}

// FormatInvoiceNumber renders a human-readable invoice number from a tenant
// prefix and a monotonic sequence, e.g. ("INV", 6, 123) -> "INV-000123".
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func FormatInvoiceNumber(prefix string, padWidth int, seq int64) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !prefixRe.MatchString(prefix) {
		return "", fmt.Errorf("invalid invoice prefix: %q", prefix)
	}

	if padWidth < MinPadWidth {
		padWidth = MinPadWidth
	}

	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	return fmt.Sprintf("%s-%0*d", prefix, padWidth, seq), nil
}
