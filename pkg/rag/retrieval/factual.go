package retrieval

import (
	"regexp"
	"strings"
)

// Contact-information keywords marking a query as factual.
var contactKeywords = []string{
	"email", "mail", "phone", "call", "number", "address",
	"location", "office", "reach", "contact", "fax", "website",
}

// Signal patterns in candidate text, with their boost factors.
var (
	emailMarkerRe = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`)
	digitRunRe    = regexp.MustCompile(`\+?\d[\d\s().-]{5,}\d`)
	addressRe     = regexp.MustCompile(`(?i)\b(street|st\.|avenue|ave\.|road|rd\.|suite|floor|building|blvd)\b`)
)

const (
	emailBoost   = 1.5
	phoneBoost   = 1.3
	addressBoost = 1.6
)

// isFactualQuery reports whether the query asks for contact information.
func isFactualQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range contactKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// queryNeeds describes which contact signals the query is actually asking
// for; boosts apply only to matching signals.
type queryNeeds struct {
	email   bool
	phone   bool
	address bool
}

func detectNeeds(query string) queryNeeds {
	lower := strings.ToLower(query)
	return queryNeeds{
		email:   strings.Contains(lower, "email") || strings.Contains(lower, "mail") || strings.Contains(lower, "@"),
		phone:   strings.Contains(lower, "phone") || strings.Contains(lower, "call") || strings.Contains(lower, "number") || strings.Contains(lower, "fax"),
		address: strings.Contains(lower, "address") || strings.Contains(lower, "location") || strings.Contains(lower, "office") || strings.Contains(lower, "where"),
	}
}

// boostFactor returns the multiplier for one candidate given the query's
// needs. Boosts compound when a chunk carries several requested signals.
func boostFactor(content string, needs queryNeeds) float64 {
	factor := 1.0
	if needs.email && emailMarkerRe.MatchString(content) {
		factor *= emailBoost
	}
	if needs.phone && digitRunRe.MatchString(content) {
		factor *= phoneBoost
	}
	if needs.address && addressRe.MatchString(content) {
		factor *= addressBoost
	}
	return factor
}
