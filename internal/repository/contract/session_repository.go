package contract

import "ipecd-chatbot-be/internal/entity"

// SessionRepository keeps live conversation state. Entries expire after
// the configured TTL; Get refreshes the deadline on hit so an active
// conversation never expires mid-flight.
type SessionRepository interface {
	Get(sessionID string) (*entity.ChatSession, bool)
	Save(session *entity.ChatSession)
	Delete(sessionID string)
}
