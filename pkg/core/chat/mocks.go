package chat

import (
	"context"
	"fmt"
	"time"
)

// MockFinancialData stands in for the statement lookup service so the
// pipeline can run without a database, matching its in-band error contract.
type MockFinancialData struct {
	Reply   string
	Latency time.Duration
}

func (m *MockFinancialData) QueryFinancialData(ctx context.Context, question string) string {
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return fmt.Sprintf("재무 데이터 조회 중 오류가 발생했습니다: %v", ctx.Err())
		}
	}
	if m.Reply != "" {
		return m.Reply
	}
	return "삼성전자의 2025년 상반기 매출액은 145,766,341,000,000원입니다. (모의 데이터)"
}

// MockWebSearch stands in for the web search service.
type MockWebSearch struct {
	Reply   string
	Latency time.Duration
}

func (m *MockWebSearch) SearchWeb(ctx context.Context, query string) string {
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return fmt.Sprintf("웹 검색 중 오류가 발생했습니다: %v", ctx.Err())
		}
	}
	if m.Reply != "" {
		return m.Reply
	}
	return "제목: 모의 검색 결과\n내용: 검색 API 키를 설정하면 실제 웹 검색 결과가 표시됩니다.\n출처: https://example.com"
}

var (
	_ FinancialDataService = (*MockFinancialData)(nil)
	_ WebSearchService     = (*MockWebSearch)(nil)
)
