// Command ingest loads the reference document, splits it along its markdown
// structure, embeds the chunks and writes them to the Chroma collection the
// assistant retrieves from. Run it once before starting the server, and
// again whenever the document changes.
package main

import (
	"context"
	"os"

	"github.com/kataras/golog"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/sajalsharma/saj-assistant/config"
	"github.com/sajalsharma/saj-assistant/retriever"
)

func main() {
	logger := golog.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	if os.Getenv("OPENAI_API_KEY") == "" {
		logger.Fatalf("OPENAI_API_KEY is not set")
	}

	sourceDoc, err := cfg.SourceDocument()
	if err != nil {
		logger.Fatalf("%v", err)
	}

	embeddingLLM, err := openai.New(openai.WithEmbeddingModel(cfg.EmbeddingModel))
	if err != nil {
		logger.Fatalf("initialize embedding model: %v", err)
	}
	embedder, err := embeddings.NewEmbedder(embeddingLLM)
	if err != nil {
		logger.Fatalf("create embedder: %v", err)
	}

	store, err := retriever.NewChromaStore(cfg.ChromaURL, cfg.ChromaNamespace, embedder)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	// Split along markdown headings so each chunk stays on one topic.
	splitter := textsplitter.NewMarkdownTextSplitter(
		textsplitter.WithChunkSize(1000),
		textsplitter.WithChunkOverlap(100),
	)
	chunks, err := splitter.SplitText(sourceDoc)
	if err != nil {
		logger.Fatalf("split reference document: %v", err)
	}
	if len(chunks) == 0 {
		logger.Fatalf("reference document %s produced no chunks", cfg.SourceDocumentPath)
	}

	docs := make([]schema.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = schema.Document{
			PageContent: chunk,
			Metadata: map[string]any{
				"source": cfg.SourceDocumentPath,
				"chunk":  i,
			},
		}
	}

	ctx := context.Background()
	if _, err := store.AddDocuments(ctx, docs); err != nil {
		logger.Fatalf("add documents to chroma: %v", err)
	}

	logger.Infof("ingested %d chunks from %s into collection %s",
		len(docs), cfg.SourceDocumentPath, cfg.ChromaNamespace)
}
