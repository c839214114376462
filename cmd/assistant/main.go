// Command assistant runs the HTTP chat service: it wires the language model,
// vector store, routing core and session storage from configuration and
// serves the chat API.
package main

import (
	"context"
	"os"

	"github.com/kataras/golog"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sajalsharma/saj-assistant/assistant"
	"github.com/sajalsharma/saj-assistant/chains"
	"github.com/sajalsharma/saj-assistant/config"
	"github.com/sajalsharma/saj-assistant/retriever"
	"github.com/sajalsharma/saj-assistant/server"
	"github.com/sajalsharma/saj-assistant/store"
	"github.com/sajalsharma/saj-assistant/store/memory"
	"github.com/sajalsharma/saj-assistant/store/postgres"
	"github.com/sajalsharma/saj-assistant/store/redis"
	"github.com/sajalsharma/saj-assistant/store/sqlite"
)

func main() {
	logger := golog.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	// openai.New reads the key from the environment; fail fast with a clear
	// message instead of erroring on the first request.
	if os.Getenv("OPENAI_API_KEY") == "" {
		logger.Fatalf("OPENAI_API_KEY is not set")
	}

	sourceDoc, err := cfg.SourceDocument()
	if err != nil {
		logger.Fatalf("%v", err)
	}

	llm, err := openai.New(openai.WithModel(cfg.OpenAIModel))
	if err != nil {
		logger.Fatalf("initialize chat model: %v", err)
	}

	embeddingLLM, err := openai.New(openai.WithEmbeddingModel(cfg.EmbeddingModel))
	if err != nil {
		logger.Fatalf("initialize embedding model: %v", err)
	}
	embedder, err := embeddings.NewEmbedder(embeddingLLM)
	if err != nil {
		logger.Fatalf("create embedder: %v", err)
	}

	vectorStore, err := retriever.NewChromaStore(cfg.ChromaURL, cfg.ChromaNamespace, embedder)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	persona := chains.Persona{
		AssistantName: cfg.AssistantName,
		SubjectName:   cfg.SubjectName,
		SubjectRole:   cfg.SubjectRole,
	}

	graph, err := assistant.NewGraph(assistant.Collaborators{
		Classifier:   chains.NewIntentDetector(llm, persona),
		Rephraser:    chains.NewQuestionRephraser(llm),
		Retriever:    retriever.NewVectorRetriever(vectorStore, cfg.TopK),
		Grader:       chains.NewDocumentGrader(llm),
		RAG:          chains.NewRAGAnswerer(llm, persona),
		FullDocument: chains.NewFullDocumentAnswerer(llm, persona, sourceDoc),
		Smalltalk:    chains.NewSmalltalkResponder(llm, persona),
	}, assistant.WithLogger(logger))
	if err != nil {
		logger.Fatalf("build routing core: %v", err)
	}

	sessions, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatalf("initialize session store: %v", err)
	}

	srv := server.New(graph, sessions, sourceDoc, logger)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		logger.Fatalf("http server: %v", err)
	}
}

func newSessionStore(cfg *config.Config) (store.SessionStore, error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		return redis.NewSessionStore(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		}), nil
	case config.BackendPostgres:
		return postgres.NewSessionStore(context.Background(), cfg.PostgresURL)
	case config.BackendSQLite:
		return sqlite.NewSessionStore(cfg.SQLitePath)
	default:
		return memory.NewSessionStore(), nil
	}
}
