package planning

import (
	"strings"
	"time"
)

// ActionType identifies one plan step kind.
type ActionType string

const (
	ActionSearchKnowledge  ActionType = "SEARCH_KNOWLEDGE"
	ActionGetContactInfo   ActionType = "GET_CONTACT_INFO"
	ActionFormatResponse   ActionType = "FORMAT_RESPONSE"
	ActionSendEmail        ActionType = "SEND_EMAIL"
	ActionCheckCalendar    ActionType = "CHECK_CALENDAR"
	ActionQueryCRM         ActionType = "QUERY_CRM"
	ActionCallAPI          ActionType = "CALL_API"
	ActionAskClarification ActionType = "ASK_CLARIFICATION"
)

var actionTypeTable = map[string]ActionType{
	"SEARCH_KNOWLEDGE":  ActionSearchKnowledge,
	"GET_CONTACT_INFO":  ActionGetContactInfo,
	"FORMAT_RESPONSE":   ActionFormatResponse,
	"SEND_EMAIL":        ActionSendEmail,
	"CHECK_CALENDAR":    ActionCheckCalendar,
	"QUERY_CRM":         ActionQueryCRM,
	"CALL_API":          ActionCallAPI,
	"ASK_CLARIFICATION": ActionAskClarification,
}

// ParseActionType maps a model-emitted label onto a known action type.
// Unrecognized labels fall back to SEARCH_KNOWLEDGE so a creative model
// cannot produce an unexecutable plan.
func ParseActionType(raw string) ActionType {
	if t, ok := actionTypeTable[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return t
	}
	return ActionSearchKnowledge
}

// Action is one step of a plan.
type Action struct {
	Type     ActionType             `json:"type"`
	Params   map[string]interface{} `json:"params,omitempty"`
	Optional bool                   `json:"optional,omitempty"`
}

// Plan is an ordered list of actions toward a stated goal.
type Plan struct {
	Goal       string   `json:"goal"`
	Complexity string   `json:"complexity"`
	Actions    []Action `json:"actions"`
}

// Signature is the plan's action-type sequence. Two plans with the same
// signature are considered the same attempt for replan rejection.
func (p Plan) Signature() string {
	types := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		types[i] = string(a.Type)
	}
	return strings.Join(types, ">")
}

// ActionResult is the recorded outcome of executing one action.
type ActionResult struct {
	Type     ActionType    `json:"type"`
	Success  bool          `json:"success"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Optional bool          `json:"optional,omitempty"`
	Latency  time.Duration `json:"latency_ns"`
}

// Execution is the full outcome of running one plan.
type Execution struct {
	Plan    Plan           `json:"plan"`
	Results []ActionResult `json:"results"`
	Halted  bool           `json:"halted"`
}

// Succeeded reports whether every mandatory action completed.
func (e Execution) Succeeded() bool {
	if e.Halted {
		return false
	}
	for _, r := range e.Results {
		if !r.Success && !r.Optional {
			return false
		}
	}
	return true
}

// FailedSteps returns the indexes of failed actions within the plan.
func (e Execution) FailedSteps() []int {
	var failed []int
	for i, r := range e.Results {
		if !r.Success {
			failed = append(failed, i)
		}
	}
	return failed
}

// Trace is what the pipeline persists on the assistant message for
// observability: every attempt, in order.
type Trace struct {
	Attempts    []Execution `json:"attempts"`
	FinalText   string      `json:"final_text"`
	Remediation string      `json:"remediation,omitempty"`
}
