package chains

import (
	"strings"

	"github.com/sajalsharma/saj-assistant/assistant"
)

// Persona describes who the assistant is and whom it answers questions
// about. It is interpolated into every prompt.
type Persona struct {
	// AssistantName is the name the assistant uses for itself, e.g. "Saj".
	AssistantName string

	// SubjectName is the person the assistant answers questions about.
	SubjectName string

	// SubjectRole is a short description of the subject, e.g. "an AI
	// Engineer".
	SubjectRole string
}

// DefaultPersona matches the assistant this repo ships prompts for.
func DefaultPersona() Persona {
	return Persona{
		AssistantName: "Saj",
		SubjectName:   "Sajal Sharma",
		SubjectRole:   "an AI Engineer",
	}
}

// renderHistory flattens a conversation oldest-first into role-prefixed
// lines for prompt interpolation.
func renderHistory(history []assistant.Turn) string {
	if len(history) == 0 {
		return "(no prior conversation)"
	}
	var sb strings.Builder
	for i, turn := range history {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch turn.Role {
		case assistant.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(turn.Content)
	}
	return sb.String()
}
