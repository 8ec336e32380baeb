package chat

import (
	"strings"
	"testing"
)

func TestBuildRouterPrompt(t *testing.T) {
	got := buildRouterPrompt("", "재무제표가 뭐야?")
	if strings.Contains(got, "최근 대화 기록") {
		t.Errorf("Empty context should omit the history section, got %q", got)
	}
	if !strings.Contains(got, "현재 질문: \"재무제표가 뭐야?\"") {
		t.Errorf("Question should be quoted, got %q", got)
	}

	got = buildRouterPrompt("User: 이전 질문...", "다음 질문")
	if !strings.Contains(got, "최근 대화 기록:\nUser: 이전 질문...") {
		t.Errorf("Context should render under its header, got %q", got)
	}
}

func TestBuildAnalysisPromptFallbacks(t *testing.T) {
	got := buildAnalysisPrompt("질문", nil, nil, nil, nil, 0, 3)

	if !strings.Contains(got, "질문에서 언급된 회사: 없음") {
		t.Errorf("Missing mention fallback, got:\n%s", got)
	}
	if !strings.Contains(got, "이미 조회한 회사: 없음") {
		t.Errorf("Missing covered fallback, got:\n%s", got)
	}
	if !strings.Contains(got, "없음 - 모두 조회 완료") {
		t.Errorf("Missing remaining fallback, got:\n%s", got)
	}
	if !strings.Contains(got, "아직 결과 없음") {
		t.Errorf("Missing results fallback, got:\n%s", got)
	}
	if !strings.Contains(got, "현재 반복 횟수: 1/3") {
		t.Errorf("Iteration counter should be 1-based, got:\n%s", got)
	}
}

func TestBuildAnalysisPromptJoinsLists(t *testing.T) {
	got := buildAnalysisPrompt("질문",
		[]string{"삼성전자", "케이티"},
		[]string{"삼성전자"},
		[]string{"케이티"},
		[]string{"반복 1: 삼성전자 매출액 145조원"},
		1, 3)

	if !strings.Contains(got, "질문에서 언급된 회사: 삼성전자, 케이티") {
		t.Errorf("Mentions should be comma joined, got:\n%s", got)
	}
	if !strings.Contains(got, "반복 1: 삼성전자 매출액 145조원") {
		t.Errorf("Evidence should appear verbatim, got:\n%s", got)
	}
	if !strings.Contains(got, "현재 반복 횟수: 2/3") {
		t.Errorf("Second step should show 2/3, got:\n%s", got)
	}
}

func TestBuildSynthesisPrompt(t *testing.T) {
	got := buildSynthesisPrompt("질문", []string{"반복 1: 결과 A", "반복 2: 결과 B"})
	if !strings.Contains(got, "수집된 정보:\n반복 1: 결과 A\n반복 2: 결과 B") {
		t.Errorf("Evidence should be newline joined, got:\n%s", got)
	}
}

func TestStaticPromptsForbidLooseAnswers(t *testing.T) {
	if !strings.Contains(routerSystemPrompt, "\"no_retrieval\", \"single_shot_rag\", \"iterative_rag\" 중 하나만") {
		t.Error("Router rubric must restrict output to the three labels")
	}
	if !strings.Contains(analysisSystemPrompt, "형식: \"선택: [선택값] | 쿼리: [구체적인 쿼리]\"") {
		t.Error("Analysis rubric must state the decision format")
	}
	if !strings.Contains(synthesisSystemPrompt, "수집된 정보만 사용") {
		t.Error("Synthesis rubric must bind answers to evidence")
	}
	if !strings.Contains(synthesisSystemPrompt, "LaTeX") {
		t.Error("Synthesis rubric must prohibit LaTeX markup")
	}
}
