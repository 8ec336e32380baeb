package chat

import "strings"

// financialKeywords gates single-shot retrieval between the statement
// database and web search. Substring match against the lowercased query.
var financialKeywords = []string{
	"매출", "매출액", "영업이익", "당기순이익", "자산", "부채", "자본",
	"현금흐름", "재무상태표", "손익계산서", "현금흐름표", "자본변동표",
	"유동자산", "비유동자산", "유동부채", "비유동부채",
	"이익률", "수익률", "회사", "기업",
	"2023", "2024", "2025", "상반기", "하반기", "분기",
}

// IsFinancialQuery reports whether the text mentions any statement-database
// keyword and should be answered from stored financial data.
func IsFinancialQuery(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range financialKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
