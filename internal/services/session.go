package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/boykin345/ConversationalAI/pkg/log"
)

// ChatSession pairs one conversation's chatbot with its bookkeeping.
// Each session is strictly single-threaded: one utterance is resolved
// fully before the next is accepted.
type ChatSession struct {
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	ExpiresAt  time.Time `json:"expires_at"`

	bot *Chatbot
	mu  sync.Mutex
}

// Resolve serializes turns of this conversation and updates activity.
func (s *ChatSession) Resolve(utterance string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bot.Resolve(utterance)
}

// UserName reports the session's captured name, empty until extracted.
func (s *ChatSession) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bot.UserName()
}

// ChatbotFactory builds a fresh single-conversation chatbot.
type ChatbotFactory func() *Chatbot

// SessionManager manages chat sessions
type SessionManager struct {
	newBot     ChatbotFactory
	sessions   map[string]*ChatSession
	mu         sync.RWMutex
	sessionTTL time.Duration
}

// NewSessionManager creates a new session manager
func NewSessionManager(newBot ChatbotFactory) *SessionManager {
	sm := &SessionManager{
		newBot:     newBot,
		sessions:   make(map[string]*ChatSession),
		sessionTTL: 30 * time.Minute,
	}

	// Start cleanup routine
	go sm.cleanupExpiredSessions()

	return sm
}

// CreateSession starts a new conversation and returns it with the welcome message.
func (sm *SessionManager) CreateSession() (*ChatSession, string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	bot := sm.newBot()
	session := &ChatSession{
		SessionID:  uuid.NewString(),
		CreatedAt:  time.Now(),
		LastActive: time.Now(),
		ExpiresAt:  time.Now().Add(sm.sessionTTL),
		bot:        bot,
	}
	sm.sessions[session.SessionID] = session

	log.Info(log.Fields{"session_id": session.SessionID}, "session created")
	return session, bot.Welcome()
}

// GetSession retrieves an active session
func (sm *SessionManager) GetSession(sessionID string) (*ChatSession, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("session not found")
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("session expired")
	}
	return session, nil
}

// Touch extends a session's lifetime after activity.
func (sm *SessionManager) Touch(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, exists := sm.sessions[sessionID]; exists {
		session.LastActive = time.Now()
		session.ExpiresAt = time.Now().Add(sm.sessionTTL)
	}
}

// EndSession removes a session; its transaction state is discarded with it.
func (sm *SessionManager) EndSession(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, sessionID)
	log.Info(log.Fields{"session_id": sessionID}, "session ended")
}

// ActiveSessions returns the number of live sessions (for monitoring).
func (sm *SessionManager) ActiveSessions() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	count := 0
	for _, session := range sm.sessions {
		if time.Now().Before(session.ExpiresAt) {
			count++
		}
	}
	return count
}

// cleanupExpiredSessions runs periodically to clean up expired sessions
func (sm *SessionManager) cleanupExpiredSessions() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		sm.mu.Lock()
		for id, session := range sm.sessions {
			if time.Now().After(session.ExpiresAt) {
				delete(sm.sessions, id)
				log.Debug(log.Fields{"session_id": id}, "cleaned up expired session")
			}
		}
		sm.mu.Unlock()
	}
}
