// Package chat implements the adaptive question-answering pipeline: route
// classification, the bounded iterative evidence loop, and final synthesis.
// One Engine call handles one conversation turn against an owned
// ConversationState; the SessionManager owns state lifecycle across turns.
package chat

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one utterance in a conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// RouteLabel classifies how a turn gets answered.
type RouteLabel string

const (
	RouteNoRetrieval RouteLabel = "no_retrieval"
	RouteSingleShot  RouteLabel = "single_shot_rag"
	RouteIterative   RouteLabel = "iterative_rag"

	// RouteErrorNoData marks a turn that ended on the no-evidence path.
	RouteErrorNoData RouteLabel = "error_no_data"
)

// ValidDecision reports whether the label is one the router may emit.
func (r RouteLabel) ValidDecision() bool {
	switch r {
	case RouteNoRetrieval, RouteSingleShot, RouteIterative:
		return true
	}
	return false
}

// ConversationState is the per-session working state. Messages grow across
// turns; every other field is scratch space reset at each turn start.
type ConversationState struct {
	SessionID           string     `json:"session_id"`
	Messages            []Message  `json:"messages"`
	RouteDecision       RouteLabel `json:"route_decision"`
	CurrentQuery        string     `json:"current_query"`
	IntermediateResults []string   `json:"intermediate_results"`
	FinalAnswer         string     `json:"final_answer"`
	IterationCount      int        `json:"iteration_count"`
}

func NewConversationState(sessionID string) *ConversationState {
	return &ConversationState{SessionID: sessionID}
}

// BeginTurn appends the user's question and clears all scratch fields.
// Stale evidence from a previous turn must never leak into this one.
func (s *ConversationState) BeginTurn(question string) {
	s.Messages = append(s.Messages, Message{
		Role:      RoleUser,
		Content:   question,
		Timestamp: time.Now(),
	})
	s.CurrentQuery = question
	s.RouteDecision = ""
	s.IterationCount = 0
	s.IntermediateResults = nil
	s.FinalAnswer = ""
}

// AddAssistantMessage records the turn's reply in the history.
func (s *ConversationState) AddAssistantMessage(content string) {
	s.Messages = append(s.Messages, Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *ConversationState) Clone() *ConversationState {
	dup := *s
	dup.Messages = append([]Message(nil), s.Messages...)
	dup.IntermediateResults = append([]string(nil), s.IntermediateResults...)
	return &dup
}
