package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	advait "github.com/advait-ai/advait"
	"github.com/advait-ai/advait/checklist"
	"github.com/advait-ai/advait/finance/yahoo"
	"github.com/advait-ai/advait/generator"
	anthropicgenerator "github.com/advait-ai/advait/generator/anthropic"
	googlegenerator "github.com/advait-ai/advait/generator/google"
	openaigenerator "github.com/advait-ai/advait/generator/openai"
	memorymanager "github.com/advait-ai/advait/memory_manager"
	"github.com/advait-ai/advait/memory_manager/memory"
	"github.com/advait-ai/advait/memory_manager/postgres"
	toolhandler "github.com/advait-ai/advait/tool_handler"
	checklisttool "github.com/advait-ai/advait/tool_handler/checklist"
	"github.com/advait-ai/advait/tool_handler/stockanalysis"
	"github.com/advait-ai/advait/tool_handler/summarize"
	utcptool "github.com/advait-ai/advait/tool_handler/utcp"
)

var (
	cfg struct {
		// Generator config
		Provider     string `help:"Generator provider: groq, openai, anthropic, or google" default:"groq"`
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

		// Session config
		SessionId string `help:"Optional fixed session identifier" default:""`
	}
)

func newGenerator() generator.Generator {
	switch cfg.Provider {
	case "anthropic":
		return anthropicgenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.Model),
		)
	case "google":
		return googlegenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.Model),
		)
	case "openai":
		return openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.Model),
		)
	case "groq":
		return openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.Model),
			generator.WithBaseURL(cfg.BaseURL),
		)
	default:
		log.Fatalf("❌ unknown provider: %s", cfg.Provider)
		return nil
	}
}

func newMemoryManager() memorymanager.MemoryManager {
	if len(cfg.MemoryLocation) == 0 {
		return memory.NewMemoryManager(
			memorymanager.WithWindow(cfg.Window),
		)
	}
	return postgres.NewMemoryManager(
		memorymanager.WithLocation(cfg.MemoryLocation),
		memorymanager.WithWindow(cfg.Window),
		memorymanager.WithApiKey(cfg.EmbedderKey),
		memorymanager.WithEmbedderModel(cfg.Embedder),
	)
}

func main() {
	// Parse inputs
	godotenv.Load()
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	if len(cfg.GeneratorKey) == 0 {
		cfg.GeneratorKey = os.Getenv("GROQ_API_KEY")
	}
	if len(cfg.EmbedderKey) == 0 {
		cfg.EmbedderKey = os.Getenv("OPENAI_API_KEY")
	}

	// Load the integration checklist; a missing file means a fresh one.
	tasks, err := checklist.Load(cfg.Checklist)
	if err != nil {
		tasks = &checklist.Document{}
	}

	// Create custom tooling
	stocks := stockanalysis.NewToolHandler(yahoo.NewClient())

	allToolHandlers := []toolhandler.ToolHandler{
		stocks,
		summarize.NewToolHandler(),
		checklisttool.NewToolHandler(tasks, cfg.Checklist),
	}

	if remote, err := utcptool.Discover(ctx, cfg.RemoteTools, "", 10); err != nil {
		log.Printf("⚠️ remote tool discovery failed: %v", err)
	} else {
		allToolHandlers = append(allToolHandlers, remote...)
	}

	// Create ADK
	adk := advait.New(
		newMemoryManager(),
		newGenerator(),
		allToolHandlers,
		tasks,
		cfg.Context,
		cfg.SystemPrompt,
	)
	defer adk.Close()

	fmt.Println("ADVAIT chatbot. Type a message and press enter; an empty line quits.")

	sessionId := cfg.SessionId
	sessionId, err = adk.CreateSession(ctx, sessionId)
	if err != nil {
		log.Fatalf("❌ failed to start session: %v", err)
	}
	defer adk.FlushSession(ctx, sessionId)
	fmt.Printf("✅ Started Session: %s\n", sessionId)

	if stats := tasks.Stats(); stats.Total > 0 {
		fmt.Printf("📋 Checklist: %d/%d tasks done\n", stats.Completed, stats.Total)
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input:", err)
			continue
		}
		input = strings.TrimSpace(input)
		if len(input) == 0 {
			fmt.Println("Goodbye!")
			return
		}

		rsp, err := adk.Generate(ctx, sessionId, input)
		if err != nil {
			fmt.Println("Error generating response:", err)
			continue
		}
		fmt.Printf("%s\n", rsp)
		fmt.Println("---")
	}
}
