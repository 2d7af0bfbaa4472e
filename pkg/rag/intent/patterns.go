package intent

import (
	"regexp"
	"strings"
)

// Ordered regex rule sets per intent. Multi-locale token lists cover the
// languages the widget ships in (en/es/fr/de/it). First match wins.

var greetingRe = regexp.MustCompile(`(?i)^\s*(hi|hiya|hello|hey|howdy|yo|good\s+(morning|afternoon|evening)|hola|buenos\s+(dias|días|tardes)|bonjour|salut|hallo|guten\s+(morgen|tag|abend)|ciao|buongiorno|buonasera)[\s!.,?]*$`)

var farewellRe = regexp.MustCompile(`(?i)^\s*(bye|goodbye|good\s*night|see\s+you( later| soon)?|take\s+care|farewell|adios|adiós|hasta\s+(luego|pronto)|au\s+revoir|à\s+bientôt|tsch(ü|u)ss|auf\s+wiedersehen|arrivederci|a\s+presto)[\s!.,?]*$`)

var gratitudeRe = regexp.MustCompile(`(?i)^\s*(thanks|thank\s+you( (so|very) much)?|thx|ty|much\s+appreciated|gracias|muchas\s+gracias|merci( beaucoup)?|danke( sch(ö|o)n)?|grazie( mille)?)[\s!.,?]*$`)

// "what/who are you(r X)" disambiguation: ownership phrasing about the
// company stays QUESTION, capability/identity phrasing is HELP.
var helpRe = regexp.MustCompile(`(?i)^\s*(help|what\s+can\s+you\s+do|how\s+do\s+you\s+work|how\s+does\s+this\s+work|who\s+are\s+you|what\s+are\s+you)[\s!.,?]*$`)

var ownershipRe = regexp.MustCompile(`(?i)\byour\s+(services?|prices?|pricing|products?|company|business|team|hours|location|office)\b`)

var chitChatRe = regexp.MustCompile(`(?i)^\s*(how\s+are\s+you( doing)?|what'?s\s+up|lol|haha+|nice|cool|ok(ay)?\s+cool)[\s!.,?]*$`)

// Short non-question utterances hitting one of these tokens are too vague to
// retrieve against.
var vagueTopicKeywords = []string{
	"services", "info", "information", "prices", "pricing",
	"products", "contact", "details", "more",
}

var questionMarkRe = regexp.MustCompile(`\?`)

// Multi-step request markers. Shared with the planner trigger.
var (
	sequencingRe = regexp.MustCompile(`(?i)\b(first|then|after\s+that|next|finally|afterwards|lastly)\b`)
	andSplitRe   = regexp.MustCompile(`(?i)\s+and\s+`)
)

// IsGreeting reports whether text matches a greeting pattern.
func IsGreeting(text string) bool {
	return greetingRe.MatchString(text)
}

// IsFarewell reports whether text matches a farewell pattern.
func IsFarewell(text string) bool {
	return farewellRe.MatchString(text)
}

// HasMultiStepMarkers reports whether text looks like a multi-step request:
// sequencing words, two or more question marks, or two or more " and "
// conjunctions.
func HasMultiStepMarkers(text string) bool {
	if sequencingRe.MatchString(text) {
		return true
	}
	if len(questionMarkRe.FindAllString(text, -1)) >= 2 {
		return true
	}
	if len(andSplitRe.FindAllString(text, -1)) >= 2 {
		return true
	}
	return false
}

// classifyByPattern runs the pattern stage. terminal=false means later
// stages may refine the result.
func classifyByPattern(text string) (Classification, bool) {
	switch {
	case greetingRe.MatchString(text):
		return Classification{Intent: IntentGreeting, Confidence: 0.95, Stage: StagePattern}, true
	case farewellRe.MatchString(text):
		return Classification{Intent: IntentFarewell, Confidence: 0.95, Stage: StagePattern}, true
	case gratitudeRe.MatchString(text):
		return Classification{Intent: IntentGratitude, Confidence: 0.90, Stage: StagePattern}, true
	}

	// Ownership phrasing beats the help patterns: "what are your prices" is a
	// knowledge question, not a capability question.
	if ownershipRe.MatchString(text) {
		if HasMultiStepMarkers(text) {
			return Classification{Intent: IntentUnknown, Confidence: 0.60, Stage: StagePattern}, false
		}
		return Classification{Intent: IntentQuestion, Confidence: 0.60, Stage: StagePattern}, false
	}

	if helpRe.MatchString(text) {
		return Classification{Intent: IntentHelp, Confidence: 0.75, Stage: StagePattern}, true
	}

	if chitChatRe.MatchString(text) {
		return Classification{Intent: IntentChitChat, Confidence: 0.75, Stage: StagePattern}, true
	}

	if isVagueTopic(text) {
		return Classification{Intent: IntentUnclear, Confidence: 0.90, Stage: StagePattern}, true
	}

	if HasMultiStepMarkers(text) {
		return Classification{Intent: IntentUnknown, Confidence: 0.60, Stage: StagePattern}, false
	}

	return Classification{Intent: IntentQuestion, Confidence: 0.60, Stage: StagePattern}, false
}

// isVagueTopic matches short non-question utterances naming a topic without
// asking anything, e.g. "services" or "more info".
func isVagueTopic(text string) bool {
	if questionMarkRe.MatchString(text) {
		return false
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if len(strings.Fields(trimmed)) > 4 {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, kw := range vagueTopicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
