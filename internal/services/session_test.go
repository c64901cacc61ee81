package services

import (
	"strings"
	"testing"
)

func testManager(t *testing.T) *SessionManager {
	t.Helper()
	store := bookingStore(t)
	return NewSessionManager(func() *Chatbot {
		bot := NewChatbot(store, stubClassifier{}, stubRetriever{}, nil, nil)
		bot.now = nowFunc
		return bot
	})
}

func TestSessionLifecycle(t *testing.T) {
	manager := testManager(t)

	session, welcome := manager.CreateSession()
	if session.SessionID == "" {
		t.Fatal("session must get an id")
	}
	if !strings.Contains(welcome, "What's your name?") {
		t.Errorf("welcome = %q", welcome)
	}

	got, err := manager.GetSession(session.SessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != session {
		t.Error("GetSession returned a different session")
	}
	if manager.ActiveSessions() != 1 {
		t.Errorf("ActiveSessions = %d, want 1", manager.ActiveSessions())
	}

	manager.EndSession(session.SessionID)
	if _, err := manager.GetSession(session.SessionID); err == nil {
		t.Error("ended session should not resolve")
	}
	if manager.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions = %d, want 0", manager.ActiveSessions())
	}
}

func TestSessionUnknownID(t *testing.T) {
	manager := testManager(t)
	if _, err := manager.GetSession("no-such-session"); err == nil {
		t.Error("expected an error for an unknown session id")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	manager := testManager(t)

	first, _ := manager.CreateSession()
	second, _ := manager.CreateSession()

	first.Resolve("I'm Alice")
	second.Resolve("I'm Bob")

	if first.UserName() != "Alice" || second.UserName() != "Bob" {
		t.Errorf("names crossed sessions: %q, %q", first.UserName(), second.UserName())
	}
}

func TestSessionsShareInventory(t *testing.T) {
	manager := testManager(t)

	book := func(s *ChatSession, name string) string {
		s.Resolve(name)
		s.Resolve("book a flight from London to Paris on 01/12/2030")
		s.Resolve("single")
		s.Resolve("2") // flight 102 has two seats
		return s.Resolve("proceed")
	}

	first, _ := manager.CreateSession()
	second, _ := manager.CreateSession()
	third, _ := manager.CreateSession()

	if reply := book(first, "I'm Alice"); !strings.Contains(reply, "confirmed") {
		t.Fatalf("first booking failed: %q", reply)
	}
	if reply := book(second, "I'm Bob"); !strings.Contains(reply, "confirmed") {
		t.Fatalf("second booking failed: %q", reply)
	}

	// Flight 102 is now sold out, so it never reaches the third session's list.
	third.Resolve("I'm Carol")
	third.Resolve("book a flight from London to Paris on 01/12/2030")
	reply := third.Resolve("single")
	if strings.Contains(reply, "Flight 102") {
		t.Errorf("sold-out flight offered to a later session: %q", reply)
	}
	if !strings.Contains(reply, "Flight 101") {
		t.Errorf("remaining flight missing: %q", reply)
	}
}
