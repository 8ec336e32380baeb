package chat

import (
	"context"
	"fmt"
)

// answerDirect answers from the model's own knowledge, without retrieval.
func (e *Engine) answerDirect(ctx context.Context, st *ConversationState) (string, error) {
	answer, err := e.agents.ExecutePrompt(ctx, "direct", buildDirectPrompt(st.CurrentQuery), systemPrompt("direct_answer", directSystemPrompt), nil)
	if err != nil {
		return "", fmt.Errorf("DIRECT_ANSWER_ERROR: %w", err)
	}
	st.FinalAnswer = answer
	st.IntermediateResults = []string{answer}
	return answer, nil
}
