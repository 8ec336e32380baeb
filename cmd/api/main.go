package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"agentic_finqa/pkg/api/chat"
	"agentic_finqa/pkg/api/config"
	"agentic_finqa/pkg/core/agent"
	coreChat "agentic_finqa/pkg/core/chat"
	"agentic_finqa/pkg/core/entity"
	"agentic_finqa/pkg/core/lookup"
	"agentic_finqa/pkg/core/prompt"
	"agentic_finqa/pkg/core/search"
	"agentic_finqa/pkg/core/statements"
	"agentic_finqa/pkg/core/store"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		// Try from executable directory
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	agentCfg := loadAgentConfig()
	agentMgr := agent.NewManager(agentCfg)
	mockMode := agentCfg.ActiveProvider == "mock"

	if err := requireProviderKey(agentCfg.ActiveProvider); err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	tavilyKey := os.Getenv("TAVILY_API_KEY")
	if databaseURL == "" && !mockMode {
		fmt.Println("[FATAL] DATABASE_URL is not set")
		os.Exit(1)
	}
	if tavilyKey == "" && !mockMode {
		fmt.Println("[FATAL] TAVILY_API_KEY is not set")
		os.Exit(1)
	}

	ctx := context.Background()

	var financial coreChat.FinancialDataService
	var sessionStore coreChat.SessionStore
	if databaseURL != "" {
		db, err := store.Connect(ctx, databaseURL)
		if err != nil {
			fmt.Printf("[FATAL] Failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := statements.NewRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			fmt.Printf("[FATAL] Failed to ensure statement schema: %v\n", err)
			os.Exit(1)
		}

		sessionRepo := coreChat.NewSessionRepo(db)
		if err := sessionRepo.EnsureSchema(ctx); err != nil {
			fmt.Printf("[WARNING] Session persistence disabled: %v\n", err)
		} else {
			sessionStore = sessionRepo
		}

		financial = lookup.NewService(agentMgr, repo, buildEntityResolver(ctx, repo))
	} else {
		fmt.Println("[DEBUG] DATABASE_URL not set, using mock financial data")
		financial = &coreChat.MockFinancialData{}
	}

	var webSearch coreChat.WebSearchService
	if tavilyKey != "" {
		searchSvc := search.NewService(search.NewClient(tavilyKey))
		searchSvc.EnrichEmptySnippets = true
		webSearch = searchSvc
	} else {
		fmt.Println("[DEBUG] TAVILY_API_KEY not set, using mock web search")
		webSearch = &coreChat.MockWebSearch{}
	}

	aliases := loadAliasTable()

	engine := coreChat.NewEngine(agentMgr, financial, webSearch, aliases)
	sessions := coreChat.NewSessionManager(engine, sessionStore)

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Chat endpoints
	chatHandler := chat.NewHandler(sessions)
	http.HandleFunc("/api/chat", chatHandler.HandleChat)
	http.HandleFunc("/api/chat/history", chatHandler.HandleHistory)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - POST /api/chat")
	fmt.Println("  - GET  /api/chat/history")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")

	// Use os.Exit to surface startup failures (e.g. port in use)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

// loadAgentConfig reads config/models.yaml, falling back to the executable
// directory and then to defaults. MODEL_PROVIDER overrides the active
// provider so a mock run needs no config edit.
func loadAgentConfig() agent.Config {
	path := filepath.Join("config", "models.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		path = filepath.Join(filepath.Dir(exePath), "config", "models.yaml")
	}

	var cfg agent.Config
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("[WARNING] Failed to read model config: %v\n", err)
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("[WARNING] Failed to parse model config: %v\n", err)
	}
	if override := os.Getenv("MODEL_PROVIDER"); override != "" {
		cfg.ActiveProvider = override
	}
	if cfg.ActiveProvider == "" {
		cfg.ActiveProvider = "gemini"
	}
	return cfg
}

func requireProviderKey(provider string) error {
	switch provider {
	case "mock":
		return nil
	case "deepseek":
		if os.Getenv("DEEPSEEK_API_KEY") == "" {
			return fmt.Errorf("DEEPSEEK_API_KEY is not set")
		}
	case "qwen":
		if os.Getenv("QWEN_API_KEY") == "" && os.Getenv("DASHSCOPE_API_KEY") == "" {
			return fmt.Errorf("QWEN_API_KEY is not set")
		}
	default:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set")
		}
	}
	return nil
}

// buildEntityResolver embeds the distinct statement item names so the SQL
// writer gets similar-item hints. Any failure just disables the hints.
func buildEntityResolver(ctx context.Context, repo *statements.Repo) *entity.Resolver {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Println("[WARNING] GEMINI_API_KEY not set, entity hints disabled")
		return nil
	}

	embedder, err := entity.NewGeminiEmbedder(ctx, apiKey)
	if err != nil {
		fmt.Printf("[WARNING] Failed to create embedder, entity hints disabled: %v\n", err)
		return nil
	}

	items, err := repo.Items(ctx)
	if err != nil {
		fmt.Printf("[WARNING] Failed to list statement items, entity hints disabled: %v\n", err)
		return nil
	}

	resolver, err := entity.Build(ctx, embedder, items)
	if err != nil {
		fmt.Printf("[WARNING] Failed to build entity resolver, entity hints disabled: %v\n", err)
		return nil
	}
	return resolver
}

func loadAliasTable() coreChat.AliasTable {
	path := filepath.Join("config", "entities.yaml")
	if _, err := os.Stat(path); err != nil {
		return coreChat.DefaultAliasTable()
	}
	table, err := coreChat.LoadAliasTable(path)
	if err != nil {
		fmt.Printf("[WARNING] Failed to load entity config, using defaults: %v\n", err)
		return coreChat.DefaultAliasTable()
	}
	fmt.Printf("[DEBUG] Loaded %d entities from %s\n", len(table), path)
	return table
}
