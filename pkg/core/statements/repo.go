package statements

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"agentic_finqa/pkg/core/store"
)

// Repo provides read/write access to the statement tables.
type Repo struct {
	db *store.DB
}

func NewRepo(db *store.DB) *Repo {
	return &Repo{db: db}
}

// EnsureSchema creates every statement table if it does not exist.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	for _, t := range AllTypes {
		if _, err := r.db.Pool.Exec(ctx, createTableSQL(t)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.TableName(), err)
		}
	}
	return nil
}

// Clear removes all rows of one statement table before a reload.
func (r *Repo) Clear(ctx context.Context, t StatementType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown statement type: %s", t)
	}
	_, err := r.db.Pool.Exec(ctx, "DELETE FROM "+t.TableName())
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", t.TableName(), err)
	}
	return nil
}

// InsertBatch upserts parsed rows into the table in one round trip.
// Each row must already match the table's column count; nil entries land as NULL.
func (r *Repo) InsertBatch(ctx context.Context, t StatementType, rows [][]interface{}) (int, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("unknown statement type: %s", t)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	sql := upsertSQL(t)
	batch := &pgx.Batch{}
	for _, row := range rows {
		if len(row) != t.ColumnCount() {
			return 0, fmt.Errorf("row has %d fields, want %d for %s", len(row), t.ColumnCount(), t.TableName())
		}
		batch.Queue(sql, row...)
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range rows {
		if _, err := br.Exec(); err != nil {
			return inserted, fmt.Errorf("failed to insert into %s: %w", t.TableName(), err)
		}
		inserted++
	}
	return inserted, nil
}

// Companies returns every distinct company name in the income statement table.
func (r *Repo) Companies(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, "SELECT DISTINCT 회사명 FROM income_statement ORDER BY 회사명")
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, name)
	}
	return companies, rows.Err()
}

// Items returns every distinct line-item name across the three main tables.
func (r *Repo) Items(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT 항목명 FROM income_statement
		UNION
		SELECT DISTINCT 항목명 FROM balance_sheet
		UNION
		SELECT DISTINCT 항목명 FROM cash_flow_statement
		ORDER BY 항목명`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, name)
	}
	return items, rows.Err()
}

// QueryResult holds the columns and stringified rows of an executed SELECT.
type QueryResult struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the query matched nothing.
func (qr *QueryResult) Empty() bool {
	return len(qr.Rows) == 0
}

// Format renders the result as a pipe-separated text block for the
// answer-generation prompt.
func (qr *QueryResult) Format() string {
	if qr.Empty() {
		return "조회 결과가 없습니다."
	}
	var b strings.Builder
	b.WriteString(strings.Join(qr.Columns, " | "))
	b.WriteString("\n")
	for _, row := range qr.Rows {
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RunSelect executes a generated SELECT and stringifies every value.
// Column names come from the row descriptions, so SELECT * and aliased
// expressions both format correctly.
func (r *Repo) RunSelect(ctx context.Context, query string) (*QueryResult, error) {
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &QueryResult{Columns: make([]string, len(fields))}
	for i, f := range fields {
		result.Columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				row[i] = "NULL"
				continue
			}
			row[i] = fmt.Sprintf("%v", v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return result, nil
}
