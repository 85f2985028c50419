package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatLog is one recorded conversation turn: what the user asked, what
// the bot answered, and how the answer was produced.
type ChatLog struct {
	Id        uuid.UUID
	SessionID string
	UserInput string
	Response  string
	Intent    string
	Category  string
	Source    string
	Provider  string
	Details   map[string]interface{}
	CreatedAt time.Time
}

// Answer sources recorded in chat logs.
const (
	ChatSourceMenu   = "menu"
	ChatSourceTool   = "tool"
	ChatSourceMemory = "memory"
	ChatSourceLLM    = "llm"
	ChatSourceCanned = "canned"
)
