package chains

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/sajalsharma/saj-assistant/assistant"
)

const fullDocPromptTemplate = `You are an AI assistant, {{.assistant_name}}, built by {{.subject_name}}, {{.subject_role}}.
Your main task is to answer questions people may have about {{.subject_name}}.
Use the following information about {{.subject_name}} to answer the question. If
you don't know the answer, just say that you don't know. Use three sentences
maximum and keep the answer concise.

Question: {{.question}}

Context: {{.context}}

Answer:`

var fullDocPrompt = prompts.NewPromptTemplate(fullDocPromptTemplate,
	[]string{"assistant_name", "subject_name", "subject_role", "question", "context"})

// FullDocumentAnswerer answers from the entire reference document. The
// document is loaded once at startup and held immutable for the process
// lifetime, so concurrent requests can share it without synchronization.
type FullDocumentAnswerer struct {
	llm      llms.Model
	persona  Persona
	document string
}

var _ assistant.DocumentAnswerer = (*FullDocumentAnswerer)(nil)

// NewFullDocumentAnswerer creates the fallback answer generator. document is
// the complete reference text.
func NewFullDocumentAnswerer(llm llms.Model, persona Persona, document string) *FullDocumentAnswerer {
	return &FullDocumentAnswerer{llm: llm, persona: persona, document: document}
}

// AnswerFromDocument answers question from the full reference document.
func (a *FullDocumentAnswerer) AnswerFromDocument(ctx context.Context, question string) (string, error) {
	prompt, err := fullDocPrompt.Format(map[string]any{
		"assistant_name": a.persona.AssistantName,
		"subject_name":   a.persona.SubjectName,
		"subject_role":   a.persona.SubjectRole,
		"question":       question,
		"context":        a.document,
	})
	if err != nil {
		return "", fmt.Errorf("format full-document prompt: %w", err)
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("full-document answer call: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
