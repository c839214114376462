package chains

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/sajalsharma/saj-assistant/assistant"
)

const intentPromptTemplate = `Classify the intent of the user's latest message.
Use the chat history to guide your classification.

The intent is "{{.subject_label}}" if the user is asking a question about {{.subject_name}},
for example about contact info, work experience, educational background,
certifications, hobbies, or anything else about them. General greetings and
smalltalk are "{{.smalltalk_label}}". Questions about anyone other than
{{.subject_name}} are also "{{.smalltalk_label}}".

Chat History:
{{.history}}

Message:
{{.input}}

You MUST report the intent through the "classify_intent" tool.`

var intentPrompt = prompts.NewPromptTemplate(intentPromptTemplate,
	[]string{"subject_label", "subject_name", "smalltalk_label", "history", "input"})

// classifyIntentTool forces the model to answer with one label from the
// known enumeration.
var classifyIntentTool = llms.Tool{
	Type: "function",
	Function: &llms.FunctionDefinition{
		Name:        "classify_intent",
		Description: "Report the intent of the user's message.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"intent": map[string]any{
					"type": "string",
					"enum": []string{string(assistant.IntentSmalltalk), string(assistant.IntentSubjectQuestion)},
				},
			},
			"required": []string{"intent"},
		},
	},
}

// IntentDetector classifies messages as smalltalk or subject questions via a
// forced tool call, so the model's answer is constrained to the enumeration.
type IntentDetector struct {
	llm     llms.Model
	persona Persona
}

var _ assistant.IntentClassifier = (*IntentDetector)(nil)

// NewIntentDetector creates an intent detector backed by llm.
func NewIntentDetector(llm llms.Model, persona Persona) *IntentDetector {
	return &IntentDetector{llm: llm, persona: persona}
}

// Classify returns the intent label for message. A label outside the known
// enumeration is a contract violation and returns an error, never a default
// route.
func (d *IntentDetector) Classify(ctx context.Context, message string, history []assistant.Turn) (assistant.Intent, error) {
	prompt, err := intentPrompt.Format(map[string]any{
		"subject_label":   string(assistant.IntentSubjectQuestion),
		"subject_name":    d.persona.SubjectName,
		"smalltalk_label": string(assistant.IntentSmalltalk),
		"history":         renderHistory(history),
		"input":           message,
	})
	if err != nil {
		return "", fmt.Errorf("format intent prompt: %w", err)
	}

	resp, err := d.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(0),
		llms.WithTools([]llms.Tool{classifyIntentTool}),
		llms.WithToolChoice(llms.ToolChoice{
			Type:     "function",
			Function: &llms.FunctionReference{Name: "classify_intent"},
		}),
	)
	if err != nil {
		return "", fmt.Errorf("intent classification call: %w", err)
	}

	label, err := singleToolCallArgument(resp, "classify_intent", "intent")
	if err != nil {
		return "", err
	}

	intent := assistant.Intent(label)
	if !assistant.KnownIntent(intent) {
		return "", fmt.Errorf("%w: %q", assistant.ErrUnknownIntent, label)
	}
	return intent, nil
}

// singleToolCallArgument extracts one string argument from the first tool
// call of a response, failing on any structural deviation.
func singleToolCallArgument(resp *llms.ContentResponse, tool, arg string) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", assistant.ErrMalformedResponse)
	}
	choice := resp.Choices[0]
	if len(choice.ToolCalls) == 0 {
		return "", fmt.Errorf("%w: model did not call %s", assistant.ErrMalformedResponse, tool)
	}
	tc := choice.ToolCalls[0]
	if tc.FunctionCall == nil || tc.FunctionCall.Name != tool {
		return "", fmt.Errorf("%w: expected tool %s", assistant.ErrMalformedResponse, tool)
	}

	var args map[string]string
	if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %s arguments: %v", assistant.ErrMalformedResponse, tool, err)
	}
	value, ok := args[arg]
	if !ok {
		return "", fmt.Errorf("%w: %s arguments missing %q", assistant.ErrMalformedResponse, tool, arg)
	}
	return value, nil
}
