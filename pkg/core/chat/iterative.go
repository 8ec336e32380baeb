package chat

import (
	"context"
	"fmt"
	"strings"
)

const (
	choiceFinancialMarker = "선택: financial_query"
	choiceWebMarker       = "선택: web_search"
	queryMarker           = "쿼리: "
)

// runIterative collects evidence step by step until the analyzer declares
// the question answerable or the call budget runs out, then synthesizes.
func (e *Engine) runIterative(ctx context.Context, st *ConversationState) (string, error) {
	for e.continueIteration(st) {
		answer, done, err := e.runIterativeStep(ctx, st)
		if err != nil {
			return "", err
		}
		if done {
			return answer, nil
		}
	}
	// Only reachable when the budget was already spent on entry.
	return e.synthesize(ctx, st)
}

// runIterativeStep executes one analyze-act cycle. done=true carries the
// turn's answer; otherwise the loop continues with the appended evidence.
func (e *Engine) runIterativeStep(ctx context.Context, st *ConversationState) (answer string, done bool, err error) {
	if st.IterationCount >= e.maxIterations {
		answer, err = e.synthesize(ctx, st)
		return answer, true, err
	}

	fullCtx := fullContext(st.Messages, st.CurrentQuery)
	mentioned := e.aliases.MentionedIn(fullCtx)
	covered := e.aliases.CoveredIn(st.IntermediateResults)
	remaining := Remaining(mentioned, covered)

	fmt.Printf("[DEBUG] 반복 %d/%d: 언급된 회사=%v, 조회한 회사=%v, 미조회=%v\n",
		st.IterationCount+1, e.maxIterations, mentioned, covered, remaining)

	userPrompt := buildAnalysisPrompt(fullCtx, mentioned, covered, remaining, st.IntermediateResults, st.IterationCount, e.maxIterations)
	raw, callErr := e.agents.ExecutePrompt(ctx, "analyzer", userPrompt, systemPrompt("analysis", analysisSystemPrompt), nil)
	if callErr != nil {
		return "", false, fmt.Errorf("ANALYSIS_ERROR: %w", callErr)
	}

	// Models sometimes emit several steps at once; only the first line counts.
	decision := firstLine(strings.TrimSpace(raw))
	fmt.Printf("[DEBUG] 단계 결정: %s\n", decision)

	switch {
	case strings.Contains(decision, choiceFinancialMarker):
		result := e.financial.QueryFinancialData(ctx, stepQuery(decision, fullCtx))
		e.recordEvidence(st, result)
	case strings.Contains(decision, choiceWebMarker):
		result := e.web.SearchWeb(ctx, stepQuery(decision, fullCtx))
		e.recordEvidence(st, result)
	default:
		answer, err = e.synthesize(ctx, st)
		return answer, true, err
	}

	// Budget spent by this step's tool call: synthesize now rather than
	// burning another analysis call on the next pass.
	if !e.continueIteration(st) {
		answer, err = e.synthesize(ctx, st)
		return answer, true, err
	}
	return "", false, nil
}

// recordEvidence tags the result with its 1-based step number and advances
// the counter.
func (e *Engine) recordEvidence(st *ConversationState, result string) {
	st.IntermediateResults = append(st.IntermediateResults, fmt.Sprintf("반복 %d: %s", st.IterationCount+1, result))
	st.IterationCount++
}

func firstLine(s string) string {
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// stepQuery extracts the sub-query after the last 쿼리: marker. Without a
// marker the full context stands in, so the tool still gets the question.
func stepQuery(decision, fallback string) string {
	if idx := strings.LastIndex(decision, queryMarker); idx >= 0 {
		return strings.TrimSpace(decision[idx+len(queryMarker):])
	}
	return fallback
}
