package chains

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/sajalsharma/saj-assistant/assistant"
)

const ragPromptTemplate = `You are an AI assistant, {{.assistant_name}}, built by {{.subject_name}}, {{.subject_role}}.
Your main task is to answer questions people may have about {{.subject_name}}.
Use the following pieces of retrieved context to answer the question. If you
don't know the answer, just say that you don't know. Use three sentences
maximum and keep the answer concise.

Question: {{.question}}

Context: {{.context}}

Answer:`

var ragPrompt = prompts.NewPromptTemplate(ragPromptTemplate,
	[]string{"assistant_name", "subject_name", "subject_role", "question", "context"})

// passageSeparator joins filtered passages at paragraph boundaries.
const passageSeparator = "\n\n"

// RAGAnswerer generates an answer from a question plus the passages that
// survived relevance grading, joined in their retrieval order.
type RAGAnswerer struct {
	llm     llms.Model
	persona Persona
}

var _ assistant.PassageAnswerer = (*RAGAnswerer)(nil)

// NewRAGAnswerer creates a passage-based answer generator backed by llm.
func NewRAGAnswerer(llm llms.Model, persona Persona) *RAGAnswerer {
	return &RAGAnswerer{llm: llm, persona: persona}
}

// AnswerFromPassages answers question from the given passages.
func (a *RAGAnswerer) AnswerFromPassages(ctx context.Context, question string, passages []assistant.Document) (string, error) {
	contents := make([]string, len(passages))
	for i, p := range passages {
		contents[i] = p.Content
	}

	prompt, err := ragPrompt.Format(map[string]any{
		"assistant_name": a.persona.AssistantName,
		"subject_name":   a.persona.SubjectName,
		"subject_role":   a.persona.SubjectRole,
		"question":       question,
		"context":        strings.Join(contents, passageSeparator),
	})
	if err != nil {
		return "", fmt.Errorf("format rag prompt: %w", err)
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("rag answer call: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
