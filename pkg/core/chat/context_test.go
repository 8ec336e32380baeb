package chat

import (
	"strings"
	"testing"
)

func TestRouterContextEmptyForFirstTurn(t *testing.T) {
	st := NewConversationState("s")
	st.BeginTurn("재무제표가 뭐야?")
	if got := routerContext(st.Messages); got != "" {
		t.Errorf("First turn should have empty context, got %q", got)
	}
}

func TestRouterContextWindowsAndTruncates(t *testing.T) {
	long := strings.Repeat("가", 130)

	st := NewConversationState("s")
	st.BeginTurn("첫 질문")
	st.AddAssistantMessage(long)
	st.BeginTurn("둘째 질문")
	st.AddAssistantMessage("짧은 답변")
	st.BeginTurn("셋째 질문")

	got := routerContext(st.Messages)

	// Window keeps only the two messages before the current question.
	if strings.Contains(got, "첫 질문") {
		t.Errorf("Context should drop messages outside the window, got %q", got)
	}
	if !strings.Contains(got, "User: 둘째 질문...") {
		t.Errorf("Context should label user turns, got %q", got)
	}
	if !strings.Contains(got, "Bot: 짧은 답변...") {
		t.Errorf("Context should label bot turns, got %q", got)
	}
	if strings.Contains(got, "셋째 질문") {
		t.Errorf("Context must exclude the current question, got %q", got)
	}

	st2 := NewConversationState("s2")
	st2.BeginTurn("처음")
	st2.AddAssistantMessage(long)
	st2.BeginTurn("지금 질문")
	got2 := routerContext(st2.Messages)
	want := strings.Repeat("가", 100) + "..."
	if !strings.Contains(got2, want) {
		t.Errorf("Long content should truncate to 100 runes, got %q", got2)
	}
	if strings.Contains(got2, strings.Repeat("가", 101)) {
		t.Errorf("Truncation should cap at 100 runes, got %q", got2)
	}
}

func TestFullContextBareQuestionWithoutHistory(t *testing.T) {
	st := NewConversationState("s")
	st.BeginTurn("삼성전자 매출액은?")
	if got := fullContext(st.Messages, st.CurrentQuery); got != "삼성전자 매출액은?" {
		t.Errorf("Expected bare question, got %q", got)
	}
}

func TestFullContextFormatsHistory(t *testing.T) {
	st := NewConversationState("s")
	st.BeginTurn("삼성전자 2025년 매출액은?")
	st.AddAssistantMessage("145조원입니다.")
	st.BeginTurn("그럼 영업이익은?")

	got := fullContext(st.Messages, st.CurrentQuery)
	if !strings.HasPrefix(got, "대화 기록:\n") {
		t.Errorf("Expected 대화 기록 header, got %q", got)
	}
	if !strings.Contains(got, "User: 삼성전자 2025년 매출액은?") {
		t.Errorf("Expected prior user turn, got %q", got)
	}
	if !strings.Contains(got, "Bot: 145조원입니다.") {
		t.Errorf("Expected prior bot turn, got %q", got)
	}
	if !strings.HasSuffix(got, "현재 질문: 그럼 영업이익은?") {
		t.Errorf("Expected current question suffix, got %q", got)
	}
	// Unlike the router block, history lines carry no ellipsis.
	if strings.Contains(got, "...") {
		t.Errorf("Full context should not append ellipsis, got %q", got)
	}
}

func TestTruncateRunesKeepsHangulIntact(t *testing.T) {
	s := "삼성전자보고서"
	got := truncateRunes(s, 4)
	if got != "삼성전자" {
		t.Errorf("Expected 삼성전자, got %q", got)
	}
	if truncateRunes("ab", 5) != "ab" {
		t.Error("Short strings should pass through unchanged")
	}
}
