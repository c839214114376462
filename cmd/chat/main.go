// Command chat is a terminal REPL for talking to the assistant without
// running the HTTP server. History lives in process memory and is dropped
// on exit.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kataras/golog"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sajalsharma/saj-assistant/assistant"
	"github.com/sajalsharma/saj-assistant/chains"
	"github.com/sajalsharma/saj-assistant/config"
	"github.com/sajalsharma/saj-assistant/retriever"
)

var (
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func main() {
	logger := golog.New()
	logger.SetLevel("disable")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("load configuration: %v", err)))
		os.Exit(1)
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("OPENAI_API_KEY is not set"))
		os.Exit(1)
	}

	graph, err := buildGraph(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	fmt.Println(assistantStyle.Render(cfg.AssistantName+":") +
		fmt.Sprintf(" Hi! I'm %s. Ask me anything about %s.", cfg.AssistantName, cfg.SubjectName))
	fmt.Println(hintStyle.Render("(type /quit to exit)"))

	var history []assistant.Turn
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print(userStyle.Render("you: "))
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "/quit" || message == "/exit" {
			break
		}

		reply, err := graph.Run(ctx, message, history)
		if err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("error: %v", err)))
			continue
		}

		fmt.Println(assistantStyle.Render(cfg.AssistantName+":") + " " + reply)
		history = append(history,
			assistant.Turn{Role: assistant.RoleUser, Content: message},
			assistant.Turn{Role: assistant.RoleAssistant, Content: reply},
		)
	}
}

func buildGraph(cfg *config.Config, logger *golog.Logger) (*assistant.Graph, error) {
	sourceDoc, err := cfg.SourceDocument()
	if err != nil {
		return nil, err
	}

	llm, err := openai.New(openai.WithModel(cfg.OpenAIModel))
	if err != nil {
		return nil, fmt.Errorf("initialize chat model: %w", err)
	}

	embeddingLLM, err := openai.New(openai.WithEmbeddingModel(cfg.EmbeddingModel))
	if err != nil {
		return nil, fmt.Errorf("initialize embedding model: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(embeddingLLM)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	vectorStore, err := retriever.NewChromaStore(cfg.ChromaURL, cfg.ChromaNamespace, embedder)
	if err != nil {
		return nil, err
	}

	persona := chains.Persona{
		AssistantName: cfg.AssistantName,
		SubjectName:   cfg.SubjectName,
		SubjectRole:   cfg.SubjectRole,
	}

	return assistant.NewGraph(assistant.Collaborators{
		Classifier:   chains.NewIntentDetector(llm, persona),
		Rephraser:    chains.NewQuestionRephraser(llm),
		Retriever:    retriever.NewVectorRetriever(vectorStore, cfg.TopK),
		Grader:       chains.NewDocumentGrader(llm),
		RAG:          chains.NewRAGAnswerer(llm, persona),
		FullDocument: chains.NewFullDocumentAnswerer(llm, persona, sourceDoc),
		Smalltalk:    chains.NewSmalltalkResponder(llm, persona),
	}, assistant.WithLogger(logger))
}
