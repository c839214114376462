package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	intent Intent
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, message string, history []Turn) (Intent, error) {
	f.calls++
	return f.intent, f.err
}

type fakeRephraser struct {
	question string
	calls    int
}

func (f *fakeRephraser) Rephrase(ctx context.Context, message string, history []Turn) (string, error) {
	f.calls++
	if f.question == "" {
		return message, nil
	}
	return f.question, nil
}

type fakeRetriever struct {
	docs  []Document
	calls int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) ([]Document, error) {
	f.calls++
	return f.docs, nil
}

// fakeGrader judges by passage content and can delay individual calls to
// shuffle completion order.
type fakeGrader struct {
	relevant map[string]bool
	delays   map[string]time.Duration
	err      error
	calls    int
}

func (f *fakeGrader) Grade(ctx context.Context, question, passage string) (bool, error) {
	f.calls++
	if d, ok := f.delays[passage]; ok {
		time.Sleep(d)
	}
	if f.err != nil {
		return false, f.err
	}
	return f.relevant[passage], nil
}

type fakeRAG struct {
	captured []Document
	calls    int
}

func (f *fakeRAG) AnswerFromPassages(ctx context.Context, question string, passages []Document) (string, error) {
	f.calls++
	f.captured = passages
	return "rag answer", nil
}

type fakeFullDoc struct {
	calls int
}

func (f *fakeFullDoc) AnswerFromDocument(ctx context.Context, question string) (string, error) {
	f.calls++
	return "fallback answer", nil
}

type fakeSmalltalk struct {
	reply string
	calls int
}

func (f *fakeSmalltalk) Respond(ctx context.Context, message string, history []Turn) (string, error) {
	f.calls++
	return f.reply, nil
}

type fixture struct {
	classifier *fakeClassifier
	rephraser  *fakeRephraser
	retriever  *fakeRetriever
	grader     *fakeGrader
	rag        *fakeRAG
	fullDoc    *fakeFullDoc
	smalltalk  *fakeSmalltalk
	graph      *Graph
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		classifier: &fakeClassifier{intent: IntentSubjectQuestion},
		rephraser:  &fakeRephraser{},
		retriever:  &fakeRetriever{},
		grader:     &fakeGrader{relevant: map[string]bool{}},
		rag:        &fakeRAG{},
		fullDoc:    &fakeFullDoc{},
		smalltalk:  &fakeSmalltalk{reply: "hello there"},
	}
	g, err := NewGraph(Collaborators{
		Classifier:   f.classifier,
		Rephraser:    f.rephraser,
		Retriever:    f.retriever,
		Grader:       f.grader,
		RAG:          f.rag,
		FullDocument: f.fullDoc,
		Smalltalk:    f.smalltalk,
	})
	require.NoError(t, err)
	f.graph = g
	return f
}

func TestNewGraphRequiresAllCollaborators(t *testing.T) {
	_, err := NewGraph(Collaborators{})
	require.ErrorIs(t, err, ErrMissingCollaborator)
}

func TestSmalltalkShortCircuitsRetrieval(t *testing.T) {
	f := newFixture(t)
	f.classifier.intent = IntentSmalltalk

	resp, err := f.graph.Run(context.Background(), "Hi, how are you?", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp)
	assert.Equal(t, 1, f.smalltalk.calls)
	assert.Zero(t, f.retriever.calls, "smalltalk must never reach retrieval")
	assert.Zero(t, f.grader.calls, "smalltalk must never reach grading")
	assert.Zero(t, f.rephraser.calls)
}

func TestRAGPathKeepsOnlyRelevantPassages(t *testing.T) {
	f := newFixture(t)
	f.retriever.docs = []Document{
		{Content: "passage one"},
		{Content: "passage two"},
		{Content: "passage three"},
	}
	f.grader.relevant = map[string]bool{"passage two": true}

	resp, err := f.graph.Run(context.Background(), "Where did Sajal study?", nil)
	require.NoError(t, err)
	assert.Equal(t, "rag answer", resp)
	require.Len(t, f.rag.captured, 1)
	assert.Equal(t, "passage two", f.rag.captured[0].Content)
	assert.Zero(t, f.fullDoc.calls, "fallback must not run when a passage is relevant")
}

func TestAllIrrelevantFallsBackToFullDocument(t *testing.T) {
	f := newFixture(t)
	f.retriever.docs = []Document{
		{Content: "passage one"},
		{Content: "passage two"},
		{Content: "passage three"},
	}
	// grader.relevant empty: everything judged irrelevant

	resp, err := f.graph.Run(context.Background(), "Where did Sajal study?", nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", resp)
	assert.Equal(t, 1, f.fullDoc.calls)
	assert.Zero(t, f.rag.calls, "passage generator must not run on the fallback path")
}

func TestEmptyRetrievalFallsBack(t *testing.T) {
	f := newFixture(t)
	f.retriever.docs = nil

	resp, err := f.graph.Run(context.Background(), "Where did Sajal study?", nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", resp)
	assert.Zero(t, f.grader.calls)
}

func TestGradingPreservesRetrievalOrder(t *testing.T) {
	f := newFixture(t)
	f.retriever.docs = []Document{
		{Content: "a"},
		{Content: "b"},
		{Content: "c"},
		{Content: "d"},
	}
	f.grader.relevant = map[string]bool{"a": true, "c": true, "d": true}
	// Force completion in roughly reverse order.
	f.grader.delays = map[string]time.Duration{
		"a": 30 * time.Millisecond,
		"b": 20 * time.Millisecond,
		"c": 10 * time.Millisecond,
	}

	_, err := f.graph.Run(context.Background(), "question", nil)
	require.NoError(t, err)

	got := make([]string, len(f.rag.captured))
	for i, d := range f.rag.captured {
		got[i] = d.Content
	}
	assert.Equal(t, []string{"a", "c", "d"}, got, "filter must preserve retrieval order regardless of completion order")
}

func TestUnknownIntentFailsWithoutRouting(t *testing.T) {
	f := newFixture(t)
	f.classifier.intent = Intent("unknown")

	_, err := f.graph.Run(context.Background(), "anything", nil)
	require.ErrorIs(t, err, ErrUnknownIntent)
	assert.Zero(t, f.smalltalk.calls)
	assert.Zero(t, f.rephraser.calls)
	assert.Zero(t, f.retriever.calls)
}

func TestClassifierErrorFailsRequest(t *testing.T) {
	f := newFixture(t)
	f.classifier.err = errors.New("upstream down")

	_, err := f.graph.Run(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect_intent")
}

func TestGraderErrorFailsRequest(t *testing.T) {
	f := newFixture(t)
	f.retriever.docs = []Document{{Content: "a"}, {Content: "b"}}
	f.grader.err = fmt.Errorf("%w: got \"maybe\"", ErrNonBinaryGrade)

	_, err := f.graph.Run(context.Background(), "question", nil)
	require.ErrorIs(t, err, ErrNonBinaryGrade)
	assert.Zero(t, f.rag.calls)
	assert.Zero(t, f.fullDoc.calls)
}

func TestRunIsDeterministicWithDeterministicCollaborators(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "Tell me about Sajal"},
		{Role: RoleAssistant, Content: "He is an AI engineer."},
	}

	var responses []string
	for range 3 {
		f := newFixture(t)
		f.retriever.docs = []Document{{Content: "x"}, {Content: "y"}}
		f.grader.relevant = map[string]bool{"y": true}
		resp, err := f.graph.Run(context.Background(), "What about his certifications?", history)
		require.NoError(t, err)
		responses = append(responses, resp)
	}
	assert.Equal(t, responses[0], responses[1])
	assert.Equal(t, responses[1], responses[2])
}

func TestSmalltalkResponseReturnedVerbatim(t *testing.T) {
	f := newFixture(t)
	f.classifier.intent = IntentSmalltalk
	f.smalltalk.reply = "  Hi! Ask me anything about Sajal.  "

	resp, err := f.graph.Run(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, f.smalltalk.reply, resp, "orchestrator must not rewrite the responder's output")
}
