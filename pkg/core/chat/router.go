package chat

import (
	"context"
	"fmt"
	"strings"
)

// classifyRoute asks the router agent for one of the three labels. Any
// response outside the label set falls back to single_shot_rag so a sloppy
// model answer degrades the turn instead of failing it.
func (e *Engine) classifyRoute(ctx context.Context, st *ConversationState) (RouteLabel, error) {
	userPrompt := buildRouterPrompt(routerContext(st.Messages), st.CurrentQuery)

	raw, err := e.agents.ExecutePrompt(ctx, "router", userPrompt, systemPrompt("router", routerSystemPrompt), nil)
	if err != nil {
		return "", fmt.Errorf("ROUTER_ERROR: %w", err)
	}

	decision := RouteLabel(strings.ToLower(strings.TrimSpace(raw)))
	fmt.Printf("[DEBUG] 라우팅: 질문=%s, 원본 응답=%s\n", truncateRunes(st.CurrentQuery, 50), strings.TrimSpace(raw))

	if !decision.ValidDecision() {
		fmt.Printf("[DEBUG] 유효하지 않은 라우팅 결정, single_shot_rag로 기본 설정\n")
		decision = RouteSingleShot
	}
	return decision, nil
}
