package assistant

import "errors"

var (
	// ErrUnknownIntent is returned when the classifier produces a label
	// outside the known enumeration. The request fails rather than being
	// routed on a guessed default.
	ErrUnknownIntent = errors.New("classifier returned unknown intent label")

	// ErrNonBinaryGrade is returned when the relevance grader produces
	// anything other than a yes/no judgment. Non-conforming output is never
	// coerced to "not relevant".
	ErrNonBinaryGrade = errors.New("grader returned non-binary relevance score")

	// ErrMalformedResponse is returned when a collaborator call succeeds at
	// the transport level but its structured output is missing or
	// unparseable (e.g. an expected tool call was not made).
	ErrMalformedResponse = errors.New("malformed collaborator response")

	// ErrMissingStateField is returned when a node starts before an
	// upstream node has written a field it depends on. With the fixed
	// topology this indicates a programming error, and the check fails the
	// request fast instead of letting a zero value flow downstream.
	ErrMissingStateField = errors.New("required state field not set")

	// ErrMissingCollaborator is returned by NewGraph when a required
	// collaborator is nil.
	ErrMissingCollaborator = errors.New("missing collaborator")

	// ErrNoOutgoingEdge is returned when the driver loop reaches a node
	// with no transition, which the fixed topology should make impossible.
	ErrNoOutgoingEdge = errors.New("no outgoing edge from node")
)
