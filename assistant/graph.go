package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/kataras/golog"
)

// node names the states of the decision graph.
type node string

const (
	nodeDetectIntent    node = "detect_intent"
	nodeChat            node = "chat"
	nodeRephrase        node = "rephrase_question"
	nodeRetrieve        node = "retrieve"
	nodeGradeDocuments  node = "grade_documents"
	nodeGenerateRAG     node = "generate_rag"
	nodeGenerateFullDoc node = "generate_full_doc"

	// nodeEnd terminates the driver loop.
	nodeEnd node = "end"
)

// Collaborators bundles everything the graph calls out to. All fields are
// required.
type Collaborators struct {
	Classifier   IntentClassifier
	Rephraser    Rephraser
	Retriever    Retriever
	Grader       Grader
	RAG          PassageAnswerer
	FullDocument DocumentAnswerer
	Smalltalk    Responder
}

// Graph is the orchestrator: a fixed acyclic state machine over State. It is
// stateless across requests and safe for concurrent use, provided the
// collaborators tolerate concurrent calls.
type Graph struct {
	c   Collaborators
	log *golog.Logger

	nodes            map[node]func(ctx context.Context, s *State) error
	edges            map[node]node
	conditionalEdges map[node]func(s *State) node
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for per-node progress messages.
func WithLogger(logger *golog.Logger) Option {
	return func(g *Graph) {
		g.log = logger
	}
}

// NewGraph builds the fixed decision graph:
//
//	detect_intent ─┬─(smalltalk)──────────────► chat
//	               └─(subject_question)─► rephrase_question ─► retrieve ─► grade_documents
//	                    grade_documents ─┬─(some relevant)─► generate_rag
//	                                     └─(none relevant)─► generate_full_doc
//
// It returns an error if any collaborator is missing.
func NewGraph(c Collaborators, opts ...Option) (*Graph, error) {
	required := []struct {
		name string
		ok   bool
	}{
		{"classifier", c.Classifier != nil},
		{"rephraser", c.Rephraser != nil},
		{"retriever", c.Retriever != nil},
		{"grader", c.Grader != nil},
		{"rag answerer", c.RAG != nil},
		{"full-document answerer", c.FullDocument != nil},
		{"smalltalk responder", c.Smalltalk != nil},
	}
	for _, r := range required {
		if !r.ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingCollaborator, r.name)
		}
	}

	g := &Graph{c: c}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = golog.New()
		g.log.SetLevel("disable")
	}

	g.nodes = map[node]func(ctx context.Context, s *State) error{
		nodeDetectIntent:    g.detectIntent,
		nodeChat:            g.chat,
		nodeRephrase:        g.rephraseQuestion,
		nodeRetrieve:        g.retrieve,
		nodeGradeDocuments:  g.gradeDocuments,
		nodeGenerateRAG:     g.generateRAG,
		nodeGenerateFullDoc: g.generateFullDoc,
	}

	g.edges = map[node]node{
		nodeRephrase:        nodeRetrieve,
		nodeRetrieve:        nodeGradeDocuments,
		nodeChat:            nodeEnd,
		nodeGenerateRAG:     nodeEnd,
		nodeGenerateFullDoc: nodeEnd,
	}

	g.conditionalEdges = map[node]func(s *State) node{
		nodeDetectIntent: func(s *State) node {
			if s.Intent == IntentSubjectQuestion {
				return nodeRephrase
			}
			return nodeChat
		},
		nodeGradeDocuments: func(s *State) node {
			if s.UseFallback {
				return nodeGenerateFullDoc
			}
			return nodeGenerateRAG
		},
	}

	return g, nil
}

// Run executes the graph for a single message and returns the final
// response text. Any step failure fails the whole request; Run never
// returns a partial response.
func (g *Graph) Run(ctx context.Context, message string, history []Turn) (string, error) {
	state := &State{
		Message: message,
		History: history,
	}

	current := nodeDetectIntent
	for current != nodeEnd {
		fn, ok := g.nodes[current]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
		}

		g.log.Debugf("running node %s", current)
		if err := fn(ctx, state); err != nil {
			return "", fmt.Errorf("node %s: %w", current, err)
		}

		next, err := g.nextNode(current, state)
		if err != nil {
			return "", err
		}
		current = next
	}

	if state.Response == "" {
		return "", fmt.Errorf("%w: response", ErrMissingStateField)
	}
	return state.Response, nil
}

// nextNode resolves the transition out of current, preferring a conditional
// edge over a static one.
func (g *Graph) nextNode(current node, s *State) (node, error) {
	if cond, ok := g.conditionalEdges[current]; ok {
		return cond(s), nil
	}
	if next, ok := g.edges[current]; ok {
		return next, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
}

func (g *Graph) detectIntent(ctx context.Context, s *State) error {
	intent, err := g.c.Classifier.Classify(ctx, s.Message, s.History)
	if err != nil {
		return err
	}
	if !KnownIntent(intent) {
		return fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}
	s.Intent = intent
	g.log.Infof("detected intent %q", intent)
	return nil
}

func (g *Graph) chat(ctx context.Context, s *State) error {
	reply, err := g.c.Smalltalk.Respond(ctx, s.Message, s.History)
	if err != nil {
		return err
	}
	s.Response = reply
	return nil
}

func (g *Graph) rephraseQuestion(ctx context.Context, s *State) error {
	question, err := g.c.Rephraser.Rephrase(ctx, s.Message, s.History)
	if err != nil {
		return err
	}
	if question == "" {
		return fmt.Errorf("%w: rephraser returned empty question", ErrMalformedResponse)
	}
	s.StandaloneQuestion = question
	g.log.Debugf("standalone question: %s", question)
	return nil
}

func (g *Graph) retrieve(ctx context.Context, s *State) error {
	if s.StandaloneQuestion == "" {
		return fmt.Errorf("%w: standalone_question", ErrMissingStateField)
	}
	docs, err := g.c.Retriever.Retrieve(ctx, s.StandaloneQuestion)
	if err != nil {
		return err
	}
	s.Documents = docs
	g.log.Infof("retrieved %d candidate passages", len(docs))
	return nil
}

// gradeDocuments scores every retrieved passage independently and keeps the
// relevant ones in their original order. Scoring runs concurrently; the
// filter indexes by retrieval position, so completion order never affects
// the result. If nothing survives, the request falls back to the full
// reference document. One surviving passage is enough to stay on the RAG
// path.
func (g *Graph) gradeDocuments(ctx context.Context, s *State) error {
	if s.StandaloneQuestion == "" {
		return fmt.Errorf("%w: standalone_question", ErrMissingStateField)
	}

	relevant := make([]bool, len(s.Documents))
	errs := make([]error, len(s.Documents))

	var wg sync.WaitGroup
	for i, doc := range s.Documents {
		wg.Add(1)
		go func(i int, passage string) {
			defer wg.Done()
			relevant[i], errs[i] = g.c.Grader.Grade(ctx, s.StandaloneQuestion, passage)
		}(i, doc.Content)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	filtered := make([]Document, 0, len(s.Documents))
	for i, doc := range s.Documents {
		if relevant[i] {
			filtered = append(filtered, doc)
		}
	}
	s.FilteredDocuments = filtered
	s.UseFallback = len(filtered) == 0
	g.log.Infof("graded %d passages, %d relevant", len(s.Documents), len(filtered))
	return nil
}

func (g *Graph) generateRAG(ctx context.Context, s *State) error {
	if s.StandaloneQuestion == "" {
		return fmt.Errorf("%w: standalone_question", ErrMissingStateField)
	}
	if len(s.FilteredDocuments) == 0 {
		return fmt.Errorf("%w: filtered_documents", ErrMissingStateField)
	}
	answer, err := g.c.RAG.AnswerFromPassages(ctx, s.StandaloneQuestion, s.FilteredDocuments)
	if err != nil {
		return err
	}
	s.Response = answer
	return nil
}

func (g *Graph) generateFullDoc(ctx context.Context, s *State) error {
	if s.StandaloneQuestion == "" {
		return fmt.Errorf("%w: standalone_question", ErrMissingStateField)
	}
	answer, err := g.c.FullDocument.AnswerFromDocument(ctx, s.StandaloneQuestion)
	if err != nil {
		return err
	}
	s.Response = answer
	return nil
}
