package chat

import (
	"fmt"
	"strings"
)

const (
	routerContextChars = 100
	fullContextChars   = 150
	recentWindow       = 3
)

// truncateRunes cuts s to at most n runes. Byte slicing would split
// multi-byte Hangul.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func roleLabel(r Role) string {
	if r == RoleUser {
		return "User"
	}
	return "Bot"
}

// recentHistory returns the prior messages feeding a context block: the last
// window messages minus the current question, which is always the final entry.
func recentHistory(messages []Message) []Message {
	if len(messages) <= 1 {
		return nil
	}
	recent := messages
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	return recent[:len(recent)-1]
}

// routerContext renders the short history block the router sees. Empty when
// the conversation has no prior messages.
func routerContext(messages []Message) string {
	prior := recentHistory(messages)
	if len(prior) == 0 {
		return ""
	}
	lines := make([]string, 0, len(prior))
	for _, m := range prior {
		lines = append(lines, fmt.Sprintf("%s: %s...", roleLabel(m.Role), truncateRunes(m.Content, routerContextChars)))
	}
	return strings.Join(lines, "\n")
}

// fullContext renders the question together with recent history for the
// retrieval stages. With no history it is the bare question.
func fullContext(messages []Message, question string) string {
	prior := recentHistory(messages)
	if len(prior) == 0 {
		return question
	}
	lines := make([]string, 0, len(prior))
	for _, m := range prior {
		lines = append(lines, fmt.Sprintf("%s: %s", roleLabel(m.Role), truncateRunes(m.Content, fullContextChars)))
	}
	return fmt.Sprintf("대화 기록:\n%s\n\n현재 질문: %s", strings.Join(lines, "\n"), question)
}
