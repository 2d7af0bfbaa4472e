package intent

// Intent is the classified category of a user message.
type Intent string

const (
	IntentGreeting   Intent = "GREETING"
	IntentFarewell   Intent = "FAREWELL"
	IntentGratitude  Intent = "GRATITUDE"
	IntentHelp       Intent = "HELP"
	IntentQuestion   Intent = "QUESTION"
	IntentChitChat   Intent = "CHIT_CHAT"
	IntentOutOfScope Intent = "OUT_OF_SCOPE"
	IntentUnclear    Intent = "UNCLEAR"
	IntentUnknown    Intent = "UNKNOWN"
)

// Cascade stages, recorded on every classification for observability.
const (
	StageContext  = "context"
	StagePattern  = "pattern"
	StageSemantic = "semantic"
	StageLLM      = "llm"
	StageFallback = "fallback"
)

// Classification is the immutable result of one cascade run.
type Classification struct {
	Intent     Intent
	Confidence float64
	Stage      string
}

// ContextOverrider lets the dialog state machine short-circuit the cascade.
// Implemented by dialog.Machine; kept as a local interface to avoid a
// package cycle.
type ContextOverrider interface {
	// OverrideIntent returns the forced intent for the given dialog state and
	// raw text, and whether the override applies.
	OverrideIntent(state string, text string) (Intent, bool)
}
