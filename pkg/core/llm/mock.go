package llm

import (
	"context"
	"strings"
	"time"
)

// MockProvider is a deterministic stand-in used in tests and keyless local runs.
// It answers route-classification prompts with "no_retrieval" so a full chat
// turn completes without external calls.
type MockProvider struct {
	FixedResponse string
	Delay         time.Duration
}

var _ Provider = (*MockProvider)(nil)

func (p *MockProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if p.FixedResponse != "" {
		return p.FixedResponse, nil
	}

	combined := prompt + "\n" + systemPrompt
	if strings.Contains(combined, "no_retrieval") && strings.Contains(combined, "iterative_rag") {
		return "no_retrieval", nil
	}

	return "모의 응답입니다. 실제 모델 공급자를 설정하면 정확한 답변을 받을 수 있습니다.", nil
}
