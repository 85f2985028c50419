package service

import (
	"context"

	"ipecd-chatbot-be/internal/dto"
	"ipecd-chatbot-be/internal/pkg/logger"
	"ipecd-chatbot-be/internal/repository/contract"
	"ipecd-chatbot-be/pkg/learning"
)

type IMemoryService interface {
	Stats(ctx context.Context) (*dto.MemoryStatsResponse, error)
	Suggestions(ctx context.Context, partial string, limit int) (*dto.SuggestionsResponse, error)
	Recent(ctx context.Context, limit int) (*dto.RecentChatsResponse, error)
	Export(ctx context.Context) (*dto.MemoryExportResponse, error)
}

type memoryService struct {
	memory   *learning.Memory
	chatLogs contract.ChatLogRepository
	log      logger.ILogger
}

func NewMemoryService(memory *learning.Memory, chatLogs contract.ChatLogRepository, log logger.ILogger) IMemoryService {
	return &memoryService{memory: memory, chatLogs: chatLogs, log: log}
}

func (s *memoryService) Stats(ctx context.Context) (*dto.MemoryStatsResponse, error) {
	stats, err := s.memory.Stats(ctx)
	if err != nil {
		s.log.Error("MEMORY", "stats query failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	top := make([]dto.TopQuestionDTO, 0, len(stats.TopQuestions))
	for _, q := range stats.TopQuestions {
		top = append(top, dto.TopQuestionDTO{Question: q.Question, Uses: q.Uses})
	}
	return &dto.MemoryStatsResponse{
		TotalEntries:        stats.TotalEntries,
		ConceptualQuestions: stats.ConceptualQuestions,
		DataQuestions:       stats.DataQuestions,
		Categories:          stats.Categories,
		TotalUses:           stats.TotalUses,
		AverageUses:         stats.AverageUses,
		TopQuestions:        top,
	}, nil
}

func (s *memoryService) Suggestions(ctx context.Context, partial string, limit int) (*dto.SuggestionsResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	suggestions, err := s.memory.Suggestions(ctx, partial, limit)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return &dto.SuggestionsResponse{Suggestions: suggestions}, nil
}

func (s *memoryService) Recent(ctx context.Context, limit int) (*dto.RecentChatsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	logs, err := s.chatLogs.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.chatLogs.Count(ctx)
	if err != nil {
		return nil, err
	}

	chats := make([]dto.RecentChatDTO, 0, len(logs))
	for _, entry := range logs {
		chats = append(chats, dto.RecentChatDTO{
			SessionID: entry.SessionID,
			UserInput: entry.UserInput,
			Response:  entry.Response,
			Intent:    entry.Intent,
			Category:  entry.Category,
			Source:    entry.Source,
			CreatedAt: entry.CreatedAt,
		})
	}
	return &dto.RecentChatsResponse{Total: total, Chats: chats}, nil
}

func (s *memoryService) Export(ctx context.Context) (*dto.MemoryExportResponse, error) {
	entries, err := s.memory.Export(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MemoryExportEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.MemoryExportEntry{
			Question:     entry.Question,
			Response:     entry.Response,
			Category:     entry.Category,
			IsConceptual: entry.IsConceptual,
			QualityScore: entry.QualityScore,
			UseCount:     entry.UseCount,
		})
	}
	return &dto.MemoryExportResponse{Count: len(out), Entries: out}, nil
}
