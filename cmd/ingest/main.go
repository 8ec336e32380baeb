package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"agentic_finqa/pkg/core/ingest"
	"agentic_finqa/pkg/core/statements"
	"agentic_finqa/pkg/core/store"
)

func main() {
	dataDir := flag.String("data", "data", "directory holding the statement export subdirectories")
	includeEquity := flag.Bool("include-equity", false, "also load statements of changes in equity")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Println("[FATAL] DATABASE_URL is not set")
		os.Exit(1)
	}

	ctx := context.Background()
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

	loader := ingest.NewLoader(repo)
	loader.IncludeEquity = *includeEquity

	counts, err := loader.LoadAll(ctx, *dataDir)
	if err != nil {
		fmt.Printf("[FATAL] Ingest failed: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, t := range statements.AllTypes {
		n, ok := counts[t]
		if !ok {
			continue
		}
		fmt.Printf("  %-35s %d rows\n", t.TableName(), n)
		total += n
	}
	fmt.Printf("Ingest complete: %d rows across %d tables\n", total, len(counts))

	if companies, err := repo.Companies(ctx); err == nil {
		fmt.Printf("Distinct companies: %d\n", len(companies))
	}
}
