package mapper

import (
	"ipecd-chatbot-be/internal/model"
	"ipecd-chatbot-be/pkg/learning"
)

type MemoryMapper struct{}

func NewMemoryMapper() *MemoryMapper {
	return &MemoryMapper{}
}

func (m *MemoryMapper) ToEntry(e *model.MemoryEntry) *learning.Entry {
	if e == nil {
		return nil
	}
	return &learning.Entry{
		ID:                 e.ID,
		QuestionKey:        e.QuestionKey,
		Question:           e.Question,
		NormalizedQuestion: e.NormalizedQuestion,
		Response:           e.Response,
		Category:           e.Category,
		IsConceptual:       e.IsConceptual,
		QualityScore:       e.QualityScore,
		UseCount:           e.UseCount,
		CreatedAt:          e.CreatedAt,
		LastUsed:           e.LastUsed,
	}
}

func (m *MemoryMapper) ToModel(e *learning.Entry) *model.MemoryEntry {
	if e == nil {
		return nil
	}
	return &model.MemoryEntry{
		ID:                 e.ID,
		QuestionKey:        e.QuestionKey,
		Question:           e.Question,
		NormalizedQuestion: e.NormalizedQuestion,
		Response:           e.Response,
		Category:           e.Category,
		IsConceptual:       e.IsConceptual,
		QualityScore:       e.QualityScore,
		UseCount:           e.UseCount,
		CreatedAt:          e.CreatedAt,
		LastUsed:           e.LastUsed,
	}
}

func (m *MemoryMapper) ToEntries(models []*model.MemoryEntry) []learning.Entry {
	entries := make([]learning.Entry, 0, len(models))
	for _, mdl := range models {
		if entry := m.ToEntry(mdl); entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries
}
