package chains

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/sajalsharma/saj-assistant/assistant"
)

const rephrasePromptTemplate = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question, in its original language. Do not answer the question.

Chat History:
{{.chat_history}}

Follow Up Input: {{.question}}

Standalone question:`

var rephrasePrompt = prompts.NewPromptTemplate(rephrasePromptTemplate, []string{"chat_history", "question"})

// QuestionRephraser condenses a follow-up message into a standalone
// question that can be used as a retrieval query without the conversation.
type QuestionRephraser struct {
	llm llms.Model
}

var _ assistant.Rephraser = (*QuestionRephraser)(nil)

// NewQuestionRephraser creates a rephraser backed by llm.
func NewQuestionRephraser(llm llms.Model) *QuestionRephraser {
	return &QuestionRephraser{llm: llm}
}

// Rephrase returns a history-independent restatement of message. With an
// empty history the model may echo the message back; that is fine.
func (r *QuestionRephraser) Rephrase(ctx context.Context, message string, history []assistant.Turn) (string, error) {
	prompt, err := rephrasePrompt.Format(map[string]any{
		"chat_history": renderHistory(history),
		"question":     message,
	})
	if err != nil {
		return "", fmt.Errorf("format rephrase prompt: %w", err)
	}

	question, err := llms.GenerateFromSinglePrompt(ctx, r.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("rephrase call: %w", err)
	}
	return strings.TrimSpace(question), nil
}
