package preprocess

import (
	"log"
	"regexp"
	"strings"
)

// substitution is one ordered misspelling rewrite rule
type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// Fixed table of common misspellings in contact/services/business vocabulary.
// Order matters: earlier rules win when patterns overlap.
var substitutions = []substitution{
	{regexp.MustCompile(`(?i)\b(contcat|conatct|contct)\b`), "contact"},
	{regexp.MustCompile(`(?i)\b(emial|emali|emal)\b`), "email"},
	{regexp.MustCompile(`(?i)\badress\b`), "address"},
	{regexp.MustCompile(`(?i)\b(servises|servces|servicess)\b`), "services"},
	{regexp.MustCompile(`(?i)\b(bussiness|busines|bussines)\b`), "business"},
	{regexp.MustCompile(`(?i)\b(priceing|pricess|prising)\b`), "pricing"},
	{regexp.MustCompile(`(?i)\b(telefone|telphone|telephon)\b`), "telephone"},
	{regexp.MustCompile(`(?i)\b(shedule|schedual|scedule)\b`), "schedule"},
	{regexp.MustCompile(`(?i)\brecieve\b`), "receive"},
	{regexp.MustCompile(`(?i)\bwhats\b`), "what is"},
}

// Normalizer canonicalizes entity names and fixes common misspellings.
// It is a pure function over the input text: no side effects beyond logging.
type Normalizer struct {
	brandToken    string
	brandFullForm string
	brandRe       *regexp.Regexp
	logger        *log.Logger
}

// NewNormalizer creates a normalizer. brandToken is the bare brand mention
// (e.g. "acme"), brandFullForm the canonical expansion (e.g. "Acme Corp").
// Empty brandToken disables canonicalization.
func NewNormalizer(brandToken, brandFullForm string, logger *log.Logger) *Normalizer {
	n := &Normalizer{
		brandToken:    brandToken,
		brandFullForm: brandFullForm,
		logger:        logger,
	}
	if brandToken != "" {
		n.brandRe = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(brandToken) + `\b`)
	}
	return n
}

// Normalize returns the canonicalized form of raw. Output equals input when
// nothing matches.
func (n *Normalizer) Normalize(raw string) string {
	out := raw

	// (a) entity-name canonicalization: expand a bare brand mention unless the
	// full form is already present
	if n.brandRe != nil && n.brandFullForm != "" {
		if !strings.Contains(strings.ToLower(out), strings.ToLower(n.brandFullForm)) {
			out = n.brandRe.ReplaceAllString(out, n.brandFullForm)
		}
	}

	// (b) misspelling substitutions
	for _, sub := range substitutions {
		out = sub.pattern.ReplaceAllString(out, sub.replacement)
	}

	if out != raw && n.logger != nil {
		n.logger.Printf("[PREPROCESS] Normalized query: %q -> %q", raw, out)
	}
	return out
}
