// Package lookup implements the NL-to-SQL evidence service. A question goes
// in, a narrated Korean answer comes out; every failure mode is encoded in the
// returned text so the caller never has to distinguish evidence from errors.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"agentic_finqa/pkg/core/entity"
	"agentic_finqa/pkg/core/statements"
	"agentic_finqa/pkg/core/utils"
)

// Completer runs one model call for a named agent role.
// *agent.Manager satisfies this.
type Completer interface {
	ExecutePrompt(ctx context.Context, agentType string, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// StatementStore executes generated SELECT queries.
// *statements.Repo satisfies this.
type StatementStore interface {
	RunSelect(ctx context.Context, query string) (*statements.QueryResult, error)
}

// EntityResolver supplies similar stored names for a phrase.
// *entity.Resolver satisfies this.
type EntityResolver interface {
	TopK(ctx context.Context, phrase string, k int) ([]string, error)
}

const (
	lookupErrFormat = "재무 데이터 조회 중 오류가 발생했습니다: %v"
	noAnswerMessage = "답변을 생성할 수 없습니다."
)

// Service generates, executes, and narrates one SQL query per question.
type Service struct {
	agents   Completer
	store    StatementStore
	resolver EntityResolver

	dialect string
	topK    int

	sqlPrompt    string
	answerPrompt string
}

func NewService(agents Completer, store StatementStore, resolver EntityResolver) *Service {
	dialect := "postgresql"
	topK := 10
	return &Service{
		agents:       agents,
		store:        store,
		resolver:     resolver,
		dialect:      dialect,
		topK:         topK,
		sqlPrompt:    sqlSystemPrompt(dialect, topK),
		answerPrompt: answerSystemPrompt,
	}
}

// QueryFinancialData answers one financial question from the statement tables.
// The returned string is always user-presentable Korean text.
func (s *Service) QueryFinancialData(ctx context.Context, question string) string {
	fmt.Printf("[DEBUG] lookup.Service: question=%q\n", question)

	entityInfo := s.entityHints(ctx, question)

	userPrompt := fmt.Sprintf(
		"Only use the following tables:\n%s\n\nEntity names and their relationships to consider:\n%s\n\nQuestion: %s",
		statements.SchemaInfo(), entityInfo, question,
	)

	raw, err := s.agents.ExecutePrompt(ctx, "sql_writer", userPrompt, systemPrompt("sql_generation", s.sqlPrompt), map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		fmt.Printf("[WARNING] lookup.Service: SQL generation failed: %v\n", err)
		return fmt.Sprintf(lookupErrFormat, err)
	}

	query, err := ExtractSQL(raw)
	if err != nil {
		fmt.Printf("[WARNING] lookup.Service: %v\n", err)
		return fmt.Sprintf(lookupErrFormat, err)
	}
	fmt.Printf("[DEBUG] lookup.Service: query=%s\n", query)

	result, err := s.store.RunSelect(ctx, query)
	if err != nil {
		fmt.Printf("[WARNING] lookup.Service: execution failed: %v\n", err)
		return fmt.Sprintf(lookupErrFormat, err)
	}

	answer, err := s.narrate(ctx, question, query, result)
	if err != nil {
		fmt.Printf("[WARNING] lookup.Service: narration failed: %v\n", err)
		return fmt.Sprintf(lookupErrFormat, err)
	}
	if strings.TrimSpace(answer) == "" {
		return noAnswerMessage
	}
	return utils.CleanMarkdown(answer)
}

// entityHints returns resolver candidates for the question, one per line.
func (s *Service) entityHints(ctx context.Context, question string) string {
	if s.resolver == nil {
		return entity.NoEntityHints
	}

	names, err := s.resolver.TopK(ctx, question, s.topK)
	if err != nil {
		fmt.Printf("[WARNING] lookup.Service: entity lookup failed: %v\n", err)
		return entity.NoEntityHints
	}
	if len(names) == 0 {
		return entity.NoEntityHints
	}
	return strings.Join(names, "\n")
}

func (s *Service) narrate(ctx context.Context, question, query string, result *statements.QueryResult) (string, error) {
	userPrompt := fmt.Sprintf(
		"Question: %s\nSQL Query: %s\nSQL Result:\n%s",
		question, query, result.Format(),
	)
	return s.agents.ExecutePrompt(ctx, "narrator", userPrompt, systemPrompt("answer_generation", s.answerPrompt), nil)
}

// sqlResponse is the structured output contract for the SQL writer.
type sqlResponse struct {
	Query string `json:"query"`
}

// ExtractSQL pulls the SELECT statement out of a model response and rejects
// anything that could mutate the database.
func ExtractSQL(raw string) (string, error) {
	cleaned := utils.CleanMarkdown(raw)

	var parsed sqlResponse
	if _, err := utils.SmartParse(cleaned, &parsed); err != nil {
		// Some models return the bare statement despite the JSON instruction.
		if isSelect(cleaned) {
			return strings.TrimSpace(cleaned), nil
		}
		return "", fmt.Errorf("failed to parse SQL response: %w", err)
	}

	query := strings.TrimSpace(parsed.Query)
	if query == "" {
		return "", fmt.Errorf("model returned an empty query")
	}
	if !isSelect(query) {
		return "", fmt.Errorf("only SELECT queries are allowed")
	}
	return query, nil
}

func isSelect(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(q, "SELECT") || strings.HasPrefix(q, "WITH")
}
