package chains

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/sajalsharma/saj-assistant/assistant"
)

const smalltalkPromptTemplate = `You are an AI assistant, {{.assistant_name}}, built by {{.subject_name}}, {{.subject_role}}. Given the following message and chat history, please respond to the user.
You may respond to smalltalk messages such as greetings or "how are you".
For any message that is off topic, or is not a greeting, or is not about
{{.subject_name}}, refuse to answer and ask the user to ask a question about
{{.subject_name}} instead.

Chat History:
{{.chat_history}}

User Message: {{.input}}`

var smalltalkPrompt = prompts.NewPromptTemplate(smalltalkPromptTemplate,
	[]string{"assistant_name", "subject_name", "subject_role", "chat_history", "input"})

// SmalltalkResponder replies to greetings and chit-chat, and redirects
// off-topic messages back to the assistant's subject. The refusal policy
// lives in the prompt; the orchestrator does not re-validate the output.
type SmalltalkResponder struct {
	llm     llms.Model
	persona Persona
}

var _ assistant.Responder = (*SmalltalkResponder)(nil)

// NewSmalltalkResponder creates a smalltalk responder backed by llm.
func NewSmalltalkResponder(llm llms.Model, persona Persona) *SmalltalkResponder {
	return &SmalltalkResponder{llm: llm, persona: persona}
}

// Respond replies to message in the assistant persona.
func (r *SmalltalkResponder) Respond(ctx context.Context, message string, history []assistant.Turn) (string, error) {
	prompt, err := smalltalkPrompt.Format(map[string]any{
		"assistant_name": r.persona.AssistantName,
		"subject_name":   r.persona.SubjectName,
		"subject_role":   r.persona.SubjectRole,
		"chat_history":   renderHistory(history),
		"input":          message,
	})
	if err != nil {
		return "", fmt.Errorf("format smalltalk prompt: %w", err)
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, r.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("smalltalk call: %w", err)
	}
	return strings.TrimSpace(reply), nil
}
