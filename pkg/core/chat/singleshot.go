package chat

import (
	"context"
	"fmt"
)

// runSingleShot answers with exactly one tool call. The keyword gate picks
// the statement database for financial wording and web search otherwise;
// history is folded into the tool query so follow-ups like "그럼 영업이익은?"
// keep their subject.
func (e *Engine) runSingleShot(ctx context.Context, st *ConversationState) (string, error) {
	fullQuery := fullContext(st.Messages, st.CurrentQuery)

	var result string
	if IsFinancialQuery(fullQuery) {
		fmt.Printf("[DEBUG] single_shot: 재무 데이터 조회 실행\n")
		result = e.financial.QueryFinancialData(ctx, fullQuery)
	} else {
		fmt.Printf("[DEBUG] single_shot: 웹 검색 실행\n")
		result = e.web.SearchWeb(ctx, fullQuery)
	}

	st.FinalAnswer = result
	st.IntermediateResults = []string{result}
	return result, nil
}
