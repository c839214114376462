package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

type fakeVectorStore struct {
	docs      []schema.Document
	err       error
	lastQuery string
	lastK     int
}

func (f *fakeVectorStore) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	return nil, nil
}

func (f *fakeVectorStore) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	f.lastQuery = query
	f.lastK = numDocuments
	return f.docs, f.err
}

func TestRetrievePreservesStoreOrder(t *testing.T) {
	store := &fakeVectorStore{
		docs: []schema.Document{
			{PageContent: "first", Metadata: map[string]any{"source": "a"}},
			{PageContent: "second", Metadata: map[string]any{"source": "b"}},
		},
	}
	r := NewVectorRetriever(store, 3)

	docs, err := r.Retrieve(context.Background(), "where did sajal study")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "first", docs[0].Content)
	assert.Equal(t, "second", docs[1].Content)
	assert.Equal(t, "a", docs[0].Metadata["source"])
	assert.Equal(t, "where did sajal study", store.lastQuery)
	assert.Equal(t, 3, store.lastK)
}

func TestRetrieveDefaultsTopK(t *testing.T) {
	store := &fakeVectorStore{}
	r := NewVectorRetriever(store, 0)

	_, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, defaultTopK, store.lastK)
}

func TestRetrievePropagatesStoreErrors(t *testing.T) {
	store := &fakeVectorStore{err: errors.New("store down")}
	r := NewVectorRetriever(store, 2)

	_, err := r.Retrieve(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "similarity search")
}
