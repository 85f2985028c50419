package entity

import (
	"time"

	"ipecd-chatbot-be/pkg/llm"
)

// ChatSession is the per-conversation state: where the user stands in
// the menu, the navigation trail for "atrás", the rolling LLM context
// and the active topic category. Sessions live in a TTL store and
// expire with inactivity.
type ChatSession struct {
	ID            string
	CurrentNodeID string
	History       []string
	Messages      []llm.Message
	Category      string
	CreatedAt     time.Time
	LastActive    time.Time
}

func NewChatSession(id, rootNodeID string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:            id,
		CurrentNodeID: rootNodeID,
		CreatedAt:     now,
		LastActive:    now,
	}
}

// PushHistory records the node just entered. The trail top always
// mirrors CurrentNodeID, so going back means popping the current node
// and landing on the new top.
func (s *ChatSession) PushHistory(nodeID string) {
	s.History = append(s.History, nodeID)
}

// PopHistory removes and returns the trail top, or "" when empty.
func (s *ChatSession) PopHistory() string {
	if len(s.History) == 0 {
		return ""
	}
	last := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return last
}

// PeekHistory returns the trail top without removing it, or "" when
// empty.
func (s *ChatSession) PeekHistory() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1]
}

// Reset returns the session to the root menu and clears the rolling
// conversation context.
func (s *ChatSession) Reset(rootNodeID string) {
	s.CurrentNodeID = rootNodeID
	s.History = nil
	s.Messages = nil
	s.Category = ""
}
