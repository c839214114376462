package assistant

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single utterance in a conversation, oldest-first in a history
// slice. Histories are never mutated once a request starts.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Document is a chunk of source text plus opaque metadata, as returned by
// the document store.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// State is the unit of data threaded through the graph. Message and History
// are set at request start and never change; every other field is written
// exactly once by the node that owns it.
type State struct {
	Message string
	History []Turn

	// Intent is set by the detect_intent node.
	Intent Intent

	// StandaloneQuestion is set by the rephrase_question node. It stays
	// empty on the smalltalk path.
	StandaloneQuestion string

	// Documents holds the raw retrieval results, in store order.
	Documents []Document

	// FilteredDocuments is the subsequence of Documents judged relevant,
	// preserving the original relative order. May be empty.
	FilteredDocuments []Document

	// UseFallback is true iff grading left FilteredDocuments empty.
	UseFallback bool

	// Response is set by exactly one terminal node.
	Response string
}

// Intent is a classification label for an incoming message.
type Intent string

const (
	// IntentSmalltalk covers greetings, chit-chat, off-topic messages and
	// questions about third parties.
	IntentSmalltalk Intent = "smalltalk"

	// IntentSubjectQuestion marks a question about the assistant's
	// designated subject.
	IntentSubjectQuestion Intent = "subject_question"
)

// KnownIntent reports whether label is part of the classifier's contract.
func KnownIntent(label Intent) bool {
	return label == IntentSmalltalk || label == IntentSubjectQuestion
}
