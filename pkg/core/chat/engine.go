package chat

import (
	"context"
)

// Completer runs a prompt through the agent configured for the given role.
// *agent.Manager satisfies this.
type Completer interface {
	ExecutePrompt(ctx context.Context, agentType string, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// FinancialDataService answers a natural-language question from the
// statement database. Failures come back in-band as Korean error text.
type FinancialDataService interface {
	QueryFinancialData(ctx context.Context, question string) string
}

// WebSearchService answers a query from the web. Failures come back in-band.
type WebSearchService interface {
	SearchWeb(ctx context.Context, query string) string
}

const defaultMaxIterations = 3

// Engine answers one conversation turn. It mutates the passed state
// (route decision, evidence, final answer) and returns the reply text.
// Concurrent turns must use distinct states.
type Engine struct {
	agents        Completer
	financial     FinancialDataService
	web           WebSearchService
	aliases       AliasTable
	maxIterations int
}

func NewEngine(agents Completer, financial FinancialDataService, web WebSearchService, aliases AliasTable) *Engine {
	if len(aliases) == 0 {
		aliases = DefaultAliasTable()
	}
	return &Engine{
		agents:        agents,
		financial:     financial,
		web:           web,
		aliases:       aliases,
		maxIterations: defaultMaxIterations,
	}
}

// Respond answers the turn prepared by BeginTurn. A returned error means a
// model call failed; tool failures never surface here, they flow through the
// answer text.
func (e *Engine) Respond(ctx context.Context, st *ConversationState) (string, error) {
	route, err := e.classifyRoute(ctx, st)
	if err != nil {
		return "", err
	}
	st.RouteDecision = route
	st.IterationCount = 0

	switch route {
	case RouteNoRetrieval:
		return e.answerDirect(ctx, st)
	case RouteIterative:
		return e.runIterative(ctx, st)
	default:
		return e.runSingleShot(ctx, st)
	}
}

// continueIteration is the single continuation predicate for the evidence
// loop: stop once an answer exists or the call budget is spent. The in-step
// shortcut and the loop head must agree, so both use this.
func (e *Engine) continueIteration(st *ConversationState) bool {
	return st.FinalAnswer == "" && st.IterationCount < e.maxIterations
}
