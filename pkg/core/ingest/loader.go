package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agentic_finqa/pkg/core/statements"
)

// statementDirs maps each table to its subdirectory under the data root.
var statementDirs = map[statements.StatementType]string{
	statements.BalanceSheet:  "balance_sheets",
	statements.Income:        "income_statements",
	statements.CashFlow:      "cash_flow_statements",
	statements.EquityChanges: "equity_statements",
}

// Loader walks a data directory and loads every export file it finds.
type Loader struct {
	repo *statements.Repo

	// IncludeEquity enables the equity-changes table. The export's equity
	// layout varies across filers, so it stays opt-in.
	IncludeEquity bool
}

func NewLoader(repo *statements.Repo) *Loader {
	return &Loader{repo: repo}
}

// LoadAll clears and reloads every statement table from dataDir.
// Returns the number of rows loaded per table.
func (l *Loader) LoadAll(ctx context.Context, dataDir string) (map[statements.StatementType]int, error) {
	counts := make(map[statements.StatementType]int)

	for _, t := range statements.AllTypes {
		if t == statements.EquityChanges && !l.IncludeEquity {
			fmt.Printf("[DEBUG] Loader: skipping %s (disabled)\n", t.TableName())
			continue
		}

		n, err := l.LoadStatement(ctx, dataDir, t)
		if err != nil {
			return counts, err
		}
		counts[t] = n
	}

	return counts, nil
}

// LoadStatement clears one table and loads all of its export files.
func (l *Loader) LoadStatement(ctx context.Context, dataDir string, t statements.StatementType) (int, error) {
	dir := filepath.Join(dataDir, statementDirs[t])
	files, err := listExportFiles(dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		fmt.Printf("[WARNING] Loader: no export files under %s\n", dir)
		return 0, nil
	}

	if err := l.repo.Clear(ctx, t); err != nil {
		return 0, err
	}

	total := 0
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return total, fmt.Errorf("failed to read %s: %w", path, err)
		}

		rows, stats, err := ParseBytes(raw, t)
		if err != nil {
			return total, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		n, err := l.repo.InsertBatch(ctx, t, rows)
		if err != nil {
			return total, fmt.Errorf("failed to load %s: %w", path, err)
		}

		total += n
		fmt.Printf("[DEBUG] Loader: %s: %d rows loaded, %d skipped\n", filepath.Base(path), n, stats.Skipped)
	}

	fmt.Printf("[DEBUG] Loader: %s: %d rows total from %d files\n", t.TableName(), total, len(files))
	return total, nil
}

func listExportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".tsv") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}
