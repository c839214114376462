package chains

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/sajalsharma/saj-assistant/assistant"
)

const graderPromptTemplate = `You are a grader assessing relevance of a retrieved document to a user question.

Retrieved document:

{{.context}}

User Question: {{.question}}

Consider whether the document can provide a complete answer to the question
posed. A document is relevant only if it contains all the necessary
information to fully answer the user's inquiry without requiring additional
context or assumptions.

Report a binary 'yes' or 'no' score through the "grade" tool. Do not return
anything other than 'yes' or 'no'.`

var graderPrompt = prompts.NewPromptTemplate(graderPromptTemplate, []string{"context", "question"})

var gradeTool = llms.Tool{
	Type: "function",
	Function: &llms.FunctionDefinition{
		Name:        "grade",
		Description: "Binary relevance score for a retrieved document.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"binary_score": map[string]any{
					"type":        "string",
					"enum":        []string{"yes", "no"},
					"description": "Relevance score 'yes' or 'no'",
				},
			},
			"required": []string{"binary_score"},
		},
	},
}

// DocumentGrader judges the relevance of a single passage to a question.
// The output contract is strictly binary; anything else fails the call.
type DocumentGrader struct {
	llm llms.Model
}

var _ assistant.Grader = (*DocumentGrader)(nil)

// NewDocumentGrader creates a grader backed by llm.
func NewDocumentGrader(llm llms.Model) *DocumentGrader {
	return &DocumentGrader{llm: llm}
}

// Grade reports whether passage is relevant to question.
func (g *DocumentGrader) Grade(ctx context.Context, question, passage string) (bool, error) {
	prompt, err := graderPrompt.Format(map[string]any{
		"context":  passage,
		"question": question,
	})
	if err != nil {
		return false, fmt.Errorf("format grader prompt: %w", err)
	}

	resp, err := g.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(0),
		llms.WithTools([]llms.Tool{gradeTool}),
		llms.WithToolChoice(llms.ToolChoice{
			Type:     "function",
			Function: &llms.FunctionReference{Name: "grade"},
		}),
	)
	if err != nil {
		return false, fmt.Errorf("relevance grading call: %w", err)
	}

	score, err := singleToolCallArgument(resp, "grade", "binary_score")
	if err != nil {
		return false, err
	}

	switch score {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", assistant.ErrNonBinaryGrade, score)
	}
}
