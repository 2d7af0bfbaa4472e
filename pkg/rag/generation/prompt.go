package generation

import (
	"fmt"
	"strings"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/retrieval"
)

// AnswerPrompt assembles the generation prompt from ranked candidates,
// recent conversation turns and optional semantic-memory facts.
type AnswerPrompt struct {
	query      string
	candidates []retrieval.Candidate
	history    []llm.Message
	facts      []string
	rephrase   bool
}

func NewAnswerPrompt(query string, candidates []retrieval.Candidate, history []llm.Message, facts []string) *AnswerPrompt {
	return &AnswerPrompt{
		query:      query,
		candidates: candidates,
		history:    history,
		facts:      facts,
	}
}

// WithRephrase appends a rephrase directive, used when the validator
// suggested rewording a rejected answer.
func (b *AnswerPrompt) WithRephrase() *AnswerPrompt {
	b.rephrase = true
	return b
}

func (b *AnswerPrompt) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeMemory(&prompt)
	b.writeConversation(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *AnswerPrompt) writeReferenceMaterial(prompt *strings.Builder) {
	if len(b.candidates) == 0 {
		return
	}

	prompt.WriteString("<reference_material>\n")
	for i, c := range b.candidates {
		prompt.WriteString(fmt.Sprintf("[Source %d] %s\n", i+1, c.Title))
		prompt.WriteString(c.Content)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *AnswerPrompt) writeMemory(prompt *strings.Builder) {
	if len(b.facts) == 0 {
		return
	}

	prompt.WriteString("<known_facts>\n")
	prompt.WriteString("Facts remembered from this conversation:\n")
	for _, f := range b.facts {
		prompt.WriteString("- ")
		prompt.WriteString(f)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</known_facts>\n\n")
}

func (b *AnswerPrompt) writeConversation(prompt *strings.Builder) {
	if len(b.history) == 0 {
		return
	}

	prompt.WriteString("<conversation>\n")
	for _, msg := range b.history {
		role := "User"
		if msg.Role == "assistant" || msg.Role == "model" {
			role = "Assistant"
		}
		prompt.WriteString(fmt.Sprintf("%s: %s\n", role, msg.Content))
	}
	prompt.WriteString("</conversation>\n\n")
}

func (b *AnswerPrompt) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are the support assistant for this company, answering a customer's question.\n")
	prompt.WriteString("Answer using ONLY the reference material above.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *AnswerPrompt) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material\n")
	prompt.WriteString("2. When you use a source, it should support every claim you make\n")
	prompt.WriteString("3. Be concise; answer the question directly before adding detail\n")
	prompt.WriteString("4. If the material doesn't contain what's being asked, say so honestly\n")
	prompt.WriteString("5. Keep the customer's language and tone\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *AnswerPrompt) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<customer_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</customer_question>\n\n")
	if b.rephrase {
		prompt.WriteString("A previous answer to this question was rejected by review. Answer again with different, clearer wording.\n\n")
	}
	prompt.WriteString("Now write your reply to the customer:")
}
