package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	advait "github.com/advait-ai/advait"
	"github.com/advait-ai/advait/checklist"
	"github.com/advait-ai/advait/finance/yahoo"
	"github.com/advait-ai/advait/generator"
	openaigenerator "github.com/advait-ai/advait/generator/openai"
	memorymanager "github.com/advait-ai/advait/memory_manager"
	"github.com/advait-ai/advait/memory_manager/memory"
	"github.com/advait-ai/advait/memory_manager/postgres"
	httpserver "github.com/advait-ai/advait/server/http"
	toolhandler "github.com/advait-ai/advait/tool_handler"
	checklisttool "github.com/advait-ai/advait/tool_handler/checklist"
	"github.com/advait-ai/advait/tool_handler/stockanalysis"
	"github.com/advait-ai/advait/tool_handler/summarize"
	utcptool "github.com/advait-ai/advait/tool_handler/utcp"
)

var (
	cfg struct {
		// Server config
		Address string `help:"Address for the chat API to listen on" default:":8080"`

		// Generator config
		GeneratorKey string `help:"API key for the generator; falls back to GROQ_API_KEY" default:""`
		Model        string `help:"Model identifier for the generator" default:"mixtral-8x7b-32768"`
		BaseURL      string `help:"OpenAI-compatible base URL" default:"https://api.groq.com/openai/v1"`

		// Memory config
		MemoryLocation string `help:"Postgres DSN for long-term memory; empty keeps everything in process" default:""`
		Window         int    `help:"Short-term memory window size per session" default:"20"`
		EmbedderKey    string `help:"API key for the embedder" default:""`
		Embedder       string `help:"Model identifier for the embedder" default:"text-embedding-3-small"`

		// Agent config
		Context      int      `help:"Number of conversation turns to send to the model" default:"8"`
		SystemPrompt string   `help:"System prompt for the chatbot" default:""`
		Checklist    string   `help:"Path to the integration task checklist" default:"TODO.md"`
		RemoteTools  []string `help:"Addresses of servers exposing remote tools" default:""`
	}
)

func main() {
	// Parse inputs
	godotenv.Load()
	_ = kong.Parse(&cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.GeneratorKey) == 0 {
		cfg.GeneratorKey = os.Getenv("GROQ_API_KEY")
	}
	if len(cfg.EmbedderKey) == 0 {
		cfg.EmbedderKey = os.Getenv("OPENAI_API_KEY")
	}

	tasks, err := checklist.Load(cfg.Checklist)
	if err != nil {
		tasks = &checklist.Document{}
	}

	var mem memorymanager.MemoryManager
	if len(cfg.MemoryLocation) == 0 {
		mem = memory.NewMemoryManager(
			memorymanager.WithWindow(cfg.Window),
		)
	} else {
		mem = postgres.NewMemoryManager(
			memorymanager.WithLocation(cfg.MemoryLocation),
			memorymanager.WithWindow(cfg.Window),
			memorymanager.WithApiKey(cfg.EmbedderKey),
			memorymanager.WithEmbedderModel(cfg.Embedder),
		)
	}

	model := openaigenerator.NewGenerator(
		generator.WithApiKey(cfg.GeneratorKey),
		generator.WithModel(cfg.Model),
		generator.WithBaseURL(cfg.BaseURL),
	)

	allToolHandlers := []toolhandler.ToolHandler{
		stockanalysis.NewToolHandler(yahoo.NewClient()),
		summarize.NewToolHandler(),
		checklisttool.NewToolHandler(tasks, cfg.Checklist),
	}

	if remote, err := utcptool.Discover(ctx, cfg.RemoteTools, "", 10); err != nil {
		log.Printf("⚠️ remote tool discovery failed: %v", err)
	} else {
		allToolHandlers = append(allToolHandlers, remote...)
	}

	adk := advait.New(
		mem,
		model,
		allToolHandlers,
		tasks,
		cfg.Context,
		cfg.SystemPrompt,
	)
	defer adk.Close()

	srv := httpserver.NewServer(
		adk,
		tasks,
		httpserver.WithAddress(cfg.Address),
		httpserver.WithChecklistPath(cfg.Checklist),
		httpserver.WithMiddleware(func(next http.Handler) http.Handler {
			return otelhttp.NewHandler(next, "chat")
		}),
	)

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatalf("❌ server error: %v", err)
	}
}
