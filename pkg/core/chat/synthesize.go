package chat

import (
	"context"
	"fmt"

	"agentic_finqa/pkg/core/utils"
)

// synthesize produces the final answer from collected evidence. With no
// evidence at all it returns the fixed apology without consulting the model;
// the route is marked error_no_data and FinalAnswer stays empty so the state
// records that this turn produced no grounded answer.
func (e *Engine) synthesize(ctx context.Context, st *ConversationState) (string, error) {
	if len(st.IntermediateResults) == 0 {
		fmt.Printf("[WARNING] 수집된 정보가 없어 사과 메시지로 응답\n")
		st.RouteDecision = RouteErrorNoData
		return apologyMessage, nil
	}

	fullQuestion := fullContext(st.Messages, st.CurrentQuery)
	userPrompt := buildSynthesisPrompt(fullQuestion, st.IntermediateResults)

	raw, err := e.agents.ExecutePrompt(ctx, "synthesizer", userPrompt, systemPrompt("synthesis", synthesisSystemPrompt), nil)
	if err != nil {
		return "", fmt.Errorf("SYNTHESIS_ERROR: %w", err)
	}

	answer := utils.CleanMarkdown(raw)
	if utils.ContainsLaTeX(answer) {
		fmt.Printf("[WARNING] 최종 답변에서 LaTeX 표기가 감지되었습니다\n")
	}
	if !utils.ValidateMarkdown(answer) {
		fmt.Printf("[WARNING] 최종 답변이 마크다운으로 파싱되지 않습니다\n")
	}
	st.FinalAnswer = answer
	return answer, nil
}
