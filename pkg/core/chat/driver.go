package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTurnTimeout = 120 * time.Second
	persistTimeout     = 5 * time.Second
	sessionIdleTTL     = 24 * time.Hour
	cleanupInterval    = 1 * time.Hour
)

// SessionStore persists conversation state across restarts. Load returns
// (nil, nil) when the session is unknown.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*ConversationState, error)
	Save(ctx context.Context, st *ConversationState) error
}

// TurnResult is what one HandleTurn call produced.
type TurnResult struct {
	SessionID  string     `json:"session_id"`
	Answer     string     `json:"answer"`
	Route      RouteLabel `json:"route"`
	Iterations int        `json:"iterations"`
}

type sessionEntry struct {
	mu         sync.Mutex
	state      *ConversationState
	lastActive time.Time
}

// SessionManager owns all live conversations. Turns on the same session are
// serialized; different sessions run concurrently. An optional SessionStore
// adds persistence, written asynchronously after each turn.
type SessionManager struct {
	engine *Engine
	store  SessionStore

	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	turnTimeout time.Duration
}

func NewSessionManager(engine *Engine, store SessionStore) *SessionManager {
	m := &SessionManager{
		engine:      engine,
		store:       store,
		sessions:    make(map[string]*sessionEntry),
		turnTimeout: defaultTurnTimeout,
	}
	go m.cleanup()
	return m
}

// HandleTurn runs one question through the pipeline. A blank session ID
// starts a new conversation. Engine failures do not fail the turn: the
// error text becomes the answer and the session stays usable.
func (m *SessionManager) HandleTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is required")
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	entry := m.entryFor(ctx, sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	st := entry.state
	st.BeginTurn(message)

	turnCtx, cancel := context.WithTimeout(ctx, m.turnTimeout)
	defer cancel()

	answer, err := m.engine.Respond(turnCtx, st)
	if err != nil {
		fmt.Printf("[WARNING] 턴 처리 실패: %v\n", err)
		answer = fmt.Sprintf("오류가 발생했습니다: %v", err)
	}
	st.AddAssistantMessage(answer)
	entry.lastActive = time.Now()

	m.persist(st)

	return &TurnResult{
		SessionID:  sessionID,
		Answer:     answer,
		Route:      st.RouteDecision,
		Iterations: st.IterationCount,
	}, nil
}

// History returns a copy of the session's messages.
func (m *SessionManager) History(ctx context.Context, sessionID string) ([]Message, bool) {
	m.mu.RLock()
	entry, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		entry.mu.Lock()
		defer entry.mu.Unlock()
		return append([]Message(nil), entry.state.Messages...), true
	}

	if m.store != nil {
		if st, err := m.store.Load(ctx, sessionID); err == nil && st != nil {
			return append([]Message(nil), st.Messages...), true
		}
	}
	return nil, false
}

// entryFor finds or creates the session entry. The store read happens
// outside the map lock so a slow database cannot stall unrelated sessions.
func (m *SessionManager) entryFor(ctx context.Context, sessionID string) *sessionEntry {
	m.mu.RLock()
	entry, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return entry
	}

	st := m.loadOrCreate(ctx, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[sessionID]; ok {
		return existing
	}
	entry = &sessionEntry{state: st, lastActive: time.Now()}
	m.sessions[sessionID] = entry
	return entry
}

// loadOrCreate restores persisted state when available. A failing store
// never blocks a conversation, it just starts fresh.
func (m *SessionManager) loadOrCreate(ctx context.Context, sessionID string) *ConversationState {
	if m.store != nil {
		st, err := m.store.Load(ctx, sessionID)
		if err != nil {
			fmt.Printf("[WARNING] 상태 조회 실패, 새로운 대화 시작: %v\n", err)
		} else if st != nil {
			st.SessionID = sessionID
			return st
		}
	}
	return NewConversationState(sessionID)
}

// persist writes a snapshot in the background so the reply is not held up
// by the database.
func (m *SessionManager) persist(st *ConversationState) {
	if m.store == nil {
		return
	}
	snapshot := st.Clone()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := m.store.Save(ctx, snapshot); err != nil {
			fmt.Printf("[WARNING] 세션 저장 실패: %v\n", err)
		}
	}()
}

// cleanup drops sessions idle for longer than the TTL. Persisted state
// survives and reloads on the next turn.
func (m *SessionManager) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	for range ticker.C {
		m.removeIdleSessions(time.Now().Add(-sessionIdleTTL))
	}
}

func (m *SessionManager) removeIdleSessions(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.sessions {
		if entry.lastActive.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
