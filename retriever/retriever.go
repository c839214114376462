// Package retriever adapts a langchaingo vector store to the assistant's
// Retriever interface. It returns candidate passages by similarity only;
// relevance grading happens downstream.
package retriever

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/chroma"

	"github.com/sajalsharma/saj-assistant/assistant"
)

const defaultTopK = 4

// VectorRetriever retrieves the top-K passages for a query from a vector
// store.
type VectorRetriever struct {
	store vectorstores.VectorStore
	topK  int
}

var _ assistant.Retriever = (*VectorRetriever)(nil)

// NewVectorRetriever wraps store. topK values below 1 fall back to the
// default.
func NewVectorRetriever(store vectorstores.VectorStore, topK int) *VectorRetriever {
	if topK < 1 {
		topK = defaultTopK
	}
	return &VectorRetriever{store: store, topK: topK}
}

// Retrieve returns up to topK passages in similarity order.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]assistant.Document, error) {
	results, err := r.store.SimilaritySearch(ctx, query, r.topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	docs := make([]assistant.Document, len(results))
	for i, res := range results {
		docs[i] = assistant.Document{
			Content:  res.PageContent,
			Metadata: res.Metadata,
		}
	}
	return docs, nil
}

// NewChromaStore connects to a Chroma server, matching the store written by
// the ingest command.
func NewChromaStore(url, namespace string, embedder embeddings.Embedder) (vectorstores.VectorStore, error) {
	store, err := chroma.New(
		chroma.WithChromaURL(url),
		chroma.WithEmbedder(embedder),
		chroma.WithDistanceFunction("cosine"),
		chroma.WithNameSpace(namespace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to chroma at %s: %w", url, err)
	}
	return store, nil
}
