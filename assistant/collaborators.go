package assistant

import "context"

// IntentClassifier labels an incoming message given the conversation so far.
// Implementations must return a label for which KnownIntent holds, or an
// error; they never default silently.
type IntentClassifier interface {
	Classify(ctx context.Context, message string, history []Turn) (Intent, error)
}

// Rephraser turns the latest message into a standalone question with
// pronouns and ellipsis resolved against history. With an empty history the
// output may equal the input verbatim.
type Rephraser interface {
	Rephrase(ctx context.Context, message string, history []Turn) (string, error)
}

// Retriever returns the top-K candidate passages for a standalone query, in
// store order. Relevance is not guaranteed; grading is the caller's concern.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Document, error)
}

// Grader judges whether a single passage is relevant to a question. The
// judgment is strictly binary.
type Grader interface {
	Grade(ctx context.Context, question, passage string) (bool, error)
}

// PassageAnswerer generates an answer from a question and a set of
// supporting passages.
type PassageAnswerer interface {
	AnswerFromPassages(ctx context.Context, question string, passages []Document) (string, error)
}

// DocumentAnswerer generates an answer from a question and the entire
// reference document. Used only on the fallback path.
type DocumentAnswerer interface {
	AnswerFromDocument(ctx context.Context, question string) (string, error)
}

// Responder replies to smalltalk and off-topic messages.
type Responder interface {
	Respond(ctx context.Context, message string, history []Turn) (string, error)
}
