package lookup

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"agentic_finqa/pkg/core/statements"
)

// scriptedCompleter returns queued responses per agent type.
type scriptedCompleter struct {
	responses map[string][]string
	calls     map[string][]string
	err       error
}

func newScriptedCompleter() *scriptedCompleter {
	return &scriptedCompleter{
		responses: map[string][]string{},
		calls:     map[string][]string{},
	}
}

func (c *scriptedCompleter) push(agentType, response string) {
	c.responses[agentType] = append(c.responses[agentType], response)
}

func (c *scriptedCompleter) ExecutePrompt(ctx context.Context, agentType, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	c.calls[agentType] = append(c.calls[agentType], prompt)
	if c.err != nil {
		return "", c.err
	}
	queue := c.responses[agentType]
	if len(queue) == 0 {
		return "", fmt.Errorf("no scripted response for %s", agentType)
	}
	next := queue[0]
	c.responses[agentType] = queue[1:]
	return next, nil
}

type fakeStore struct {
	result *statements.QueryResult
	err    error
	query  string
}

func (f *fakeStore) RunSelect(ctx context.Context, query string) (*statements.QueryResult, error) {
	f.query = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeResolver struct {
	names []string
}

func (f *fakeResolver) TopK(ctx context.Context, phrase string, k int) ([]string, error) {
	return f.names, nil
}

func TestExtractSQLFromJSON(t *testing.T) {
	raw := `{"query": "SELECT 회사명 FROM income_statement WHERE 회사명 = '삼성전자'"}`

	query, err := ExtractSQL(raw)
	if err != nil {
		t.Fatalf("ExtractSQL failed: %v", err)
	}
	if !strings.HasPrefix(query, "SELECT 회사명") {
		t.Errorf("unexpected query: %s", query)
	}
}

func TestExtractSQLStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"query\": \"SELECT 1\"}\n```"

	query, err := ExtractSQL(raw)
	if err != nil {
		t.Fatalf("ExtractSQL failed: %v", err)
	}
	if query != "SELECT 1" {
		t.Errorf("unexpected query: %s", query)
	}
}

func TestExtractSQLAcceptsBareSelect(t *testing.T) {
	query, err := ExtractSQL("SELECT 회사명 FROM balance_sheet LIMIT 10")
	if err != nil {
		t.Fatalf("bare SELECT should be accepted: %v", err)
	}
	if !strings.Contains(query, "balance_sheet") {
		t.Errorf("unexpected query: %s", query)
	}
}

func TestExtractSQLRejectsMutations(t *testing.T) {
	for _, raw := range []string{
		`{"query": "DROP TABLE income_statement"}`,
		`{"query": "DELETE FROM balance_sheet"}`,
		`{"query": "UPDATE income_statement SET 회사명 = 'x'"}`,
	} {
		if _, err := ExtractSQL(raw); err == nil {
			t.Errorf("mutation should be rejected: %s", raw)
		}
	}
}

func TestQueryFinancialDataHappyPath(t *testing.T) {
	agents := newScriptedCompleter()
	agents.push("sql_writer", `{"query": "SELECT 회사명, 당기_반기_누적 FROM income_statement WHERE 회사명 = '삼성전자'"}`)
	agents.push("narrator", "**삼성전자**: 매출액은 153,706,820,000,000원입니다.")

	store := &fakeStore{result: &statements.QueryResult{
		Columns: []string{"회사명", "당기_반기_누적"},
		Rows:    [][]string{{"삼성전자", "153,706,820,000,000"}},
	}}

	svc := NewService(agents, store, &fakeResolver{names: []string{"삼성전자"}})
	answer := svc.QueryFinancialData(context.Background(), "삼성전자 매출액은?")

	if !strings.Contains(answer, "153,706,820,000,000") {
		t.Errorf("answer should carry exact figures: %q", answer)
	}
	if !strings.Contains(store.query, "삼성전자") {
		t.Errorf("generated query not executed: %q", store.query)
	}

	// The narrator must see both the query and the formatted result.
	narratorPrompts := agents.calls["narrator"]
	if len(narratorPrompts) != 1 {
		t.Fatalf("expected 1 narrator call, got %d", len(narratorPrompts))
	}
	if !strings.Contains(narratorPrompts[0], "SQL Result:") || !strings.Contains(narratorPrompts[0], "153,706,820,000,000") {
		t.Errorf("narrator prompt incomplete:\n%s", narratorPrompts[0])
	}
}

func TestQueryFinancialDataEntityHintsInPrompt(t *testing.T) {
	agents := newScriptedCompleter()
	agents.push("sql_writer", `{"query": "SELECT 1"}`)
	agents.push("narrator", "답변")

	store := &fakeStore{result: &statements.QueryResult{Columns: []string{"?column?"}, Rows: [][]string{{"1"}}}}
	svc := NewService(agents, store, &fakeResolver{names: []string{"SK하이닉스", "SK텔레콤"}})

	svc.QueryFinancialData(context.Background(), "하이닉스 영업이익")

	writerPrompts := agents.calls["sql_writer"]
	if len(writerPrompts) != 1 {
		t.Fatalf("expected 1 sql_writer call, got %d", len(writerPrompts))
	}
	if !strings.Contains(writerPrompts[0], "SK하이닉스\nSK텔레콤") {
		t.Errorf("entity hints missing from prompt:\n%s", writerPrompts[0])
	}
	if !strings.Contains(writerPrompts[0], "CREATE TABLE IF NOT EXISTS income_statement") {
		t.Errorf("schema info missing from prompt")
	}
}

func TestQueryFinancialDataErrorsAreInBand(t *testing.T) {
	agents := newScriptedCompleter()
	agents.err = fmt.Errorf("transport down")

	svc := NewService(agents, &fakeStore{}, nil)
	answer := svc.QueryFinancialData(context.Background(), "질문")

	if !strings.HasPrefix(answer, "재무 데이터 조회 중 오류가 발생했습니다:") {
		t.Errorf("model failure should surface as in-band text: %q", answer)
	}
}

func TestQueryFinancialDataExecutionErrorInBand(t *testing.T) {
	agents := newScriptedCompleter()
	agents.push("sql_writer", `{"query": "SELECT busted"}`)

	store := &fakeStore{err: fmt.Errorf("column busted does not exist")}
	svc := NewService(agents, store, nil)

	answer := svc.QueryFinancialData(context.Background(), "질문")
	if !strings.Contains(answer, "재무 데이터 조회 중 오류가 발생했습니다") {
		t.Errorf("execution failure should surface as in-band text: %q", answer)
	}
}

func TestQueryFinancialDataEmptyNarrationFallback(t *testing.T) {
	agents := newScriptedCompleter()
	agents.push("sql_writer", `{"query": "SELECT 1"}`)
	agents.push("narrator", "   ")

	store := &fakeStore{result: &statements.QueryResult{Columns: []string{"?column?"}}}
	svc := NewService(agents, store, nil)

	answer := svc.QueryFinancialData(context.Background(), "질문")
	if answer != "답변을 생성할 수 없습니다." {
		t.Errorf("blank narration should fall back, got %q", answer)
	}
}
