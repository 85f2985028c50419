package dto

import "time"

// ChatRequest carries one user turn. An empty message is valid and
// brings up the root menu.
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"max=4000"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Tool      string `json:"tool,omitempty"`
	Source    string `json:"source,omitempty"`
}

type ResetRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
}

// MenuResponse is the rendered menu for the session's current position,
// served by the menu and reset endpoints.
type MenuResponse struct {
	SessionID   string `json:"session_id"`
	CurrentNode string `json:"current_node"`
	Menu        string `json:"menu"`
}

type ToolRequest struct {
	Tool      string            `json:"tool" validate:"required"`
	Args      map[string]string `json:"args"`
	SessionID string            `json:"session_id"`
}

type ToolResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Tool      string `json:"tool"`
}

type MemoryStatsResponse struct {
	TotalEntries        int              `json:"total_entries"`
	ConceptualQuestions int              `json:"conceptual_questions"`
	DataQuestions       int              `json:"data_questions"`
	Categories          map[string]int   `json:"categories"`
	TotalUses           int              `json:"total_uses"`
	AverageUses         float64          `json:"average_uses"`
	TopQuestions        []TopQuestionDTO `json:"top_questions"`
}

type TopQuestionDTO struct {
	Question string `json:"question"`
	Uses     int    `json:"uses"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type RecentChatDTO struct {
	SessionID string    `json:"session_id"`
	UserInput string    `json:"user_input"`
	Response  string    `json:"response"`
	Intent    string    `json:"intent,omitempty"`
	Category  string    `json:"category,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RecentChatsResponse struct {
	Total int64           `json:"total"`
	Chats []RecentChatDTO `json:"chats"`
}

type MemoryExportEntry struct {
	Question     string  `json:"question"`
	Response     string  `json:"response"`
	Category     string  `json:"category,omitempty"`
	IsConceptual bool    `json:"is_conceptual"`
	QualityScore float64 `json:"quality_score"`
	UseCount     int     `json:"use_count"`
}

type MemoryExportResponse struct {
	Count   int                 `json:"count"`
	Entries []MemoryExportEntry `json:"entries"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Warehouse bool   `json:"warehouse"`
	MenuNodes int    `json:"menu_nodes"`
}

// ChatTurnMessage travels over the learn queue so persistence and
// memory writes happen off the request path.
type ChatTurnMessage struct {
	SessionID    string `json:"session_id"`
	UserInput    string `json:"user_input"`
	Response     string `json:"response"`
	Intent       string `json:"intent,omitempty"`
	Category     string `json:"category,omitempty"`
	Source       string `json:"source,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Tool         string `json:"tool,omitempty"`
	IsConceptual bool   `json:"is_conceptual"`
	Learnable    bool   `json:"learnable"`
}
