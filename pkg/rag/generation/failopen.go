package generation

// Fail-open reasons used across the loop.
const (
	FailOpenValidatorError = "validator_error"
	FailOpenRateLimited    = "rate_limited"
)

// FailOpen resolves a validation failure to an accepted result. This is a
// deliberate policy: a broken or rate-limited validator must not block the
// answer. The tag makes the decision auditable; the result is otherwise
// indistinguishable in shape from a genuine validation.
func FailOpen(reason string) *ValidationResult {
	return &ValidationResult{
		IsValid:    true,
		Confidence: 0,
		Tags:       []string{"fail_open:" + reason},
	}
}
