// Package statements defines the financial statement tables and their
// PostgreSQL repository. Column names follow the DART half-year filing
// format, so they stay in Korean end to end: the NL-to-SQL prompt, the
// generated queries, and the narrated answers all reference the same names.
package statements

import (
	"fmt"
	"strings"
)

type StatementType string

const (
	BalanceSheet  StatementType = "balance_sheet"
	Income        StatementType = "income_statement"
	CashFlow      StatementType = "cash_flow_statement"
	EquityChanges StatementType = "statement_of_changes_in_equity"
)

// AllTypes lists every statement table in ingestion order.
var AllTypes = []StatementType{BalanceSheet, Income, CashFlow, EquityChanges}

// commonColumns are the leading columns shared by every statement table.
var commonColumns = []string{
	"재무제표종류",
	"종목코드",
	"회사명",
	"시장구분",
	"업종",
	"업종명",
	"결산월",
	"결산기준일",
	"보고서종류",
	"통화",
	"항목코드",
	"항목명",
}

// valueColumns are the per-table amount columns. Amounts are stored as TEXT
// with thousands separators exactly as filed; queries strip the commas with
// CAST(REPLACE(col, ',', '') AS NUMERIC) when they need arithmetic.
var valueColumns = map[StatementType][]string{
	BalanceSheet:  {"당기_반기말", "전기말", "전전기말"},
	Income:        {"당기_반기_3개월", "당기_반기_누적", "전기_반기_3개월", "전기_반기_누적", "전기", "전전기"},
	CashFlow:      {"당기_반기말", "전기_반기말", "전기", "전전기"},
	EquityChanges: {"당기", "전기", "전전기"},
}

// primaryKey identifies one line item of one company's filing.
var primaryKey = []string{"회사명", "결산기준일", "항목명"}

func (t StatementType) TableName() string {
	return string(t)
}

// Columns returns the full ordered column list for the table.
func (t StatementType) Columns() []string {
	cols := make([]string, 0, len(commonColumns)+len(valueColumns[t]))
	cols = append(cols, commonColumns...)
	cols = append(cols, valueColumns[t]...)
	return cols
}

// ColumnCount returns the expected field count of one TSV row for the table.
func (t StatementType) ColumnCount() int {
	return len(commonColumns) + len(valueColumns[t])
}

// Valid reports whether t names a known statement table.
func (t StatementType) Valid() bool {
	_, ok := valueColumns[t]
	return ok
}

// createTableSQL renders the CREATE TABLE statement for the table.
// Korean identifiers are valid unquoted in PostgreSQL and have no case to fold.
func createTableSQL(t StatementType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.TableName())
	for _, c := range t.Columns() {
		fmt.Fprintf(&b, "    %s TEXT,\n", c)
	}
	fmt.Fprintf(&b, "    PRIMARY KEY (%s)\n)", strings.Join(primaryKey, ", "))
	return b.String()
}

// upsertSQL renders the parameterized insert for one row, replacing the
// previous filing line on conflict so reloads are idempotent.
func upsertSQL(t StatementType) string {
	cols := t.Columns()

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	pk := map[string]bool{}
	for _, c := range primaryKey {
		pk[c] = true
	}
	var sets []string
	for _, c := range cols {
		if pk[c] {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		t.TableName(),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(primaryKey, ", "),
		strings.Join(sets, ", "),
	)
}

// SchemaInfo returns the CREATE TABLE text of every statement table.
// The SQL-generation prompt embeds this so the model sees the real schema.
func SchemaInfo() string {
	parts := make([]string, 0, len(AllTypes))
	for _, t := range AllTypes {
		parts = append(parts, createTableSQL(t))
	}
	return strings.Join(parts, "\n\n")
}
