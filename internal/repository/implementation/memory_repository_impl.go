package implementation

import (
	"context"
	"errors"
	"time"

	"ipecd-chatbot-be/internal/mapper"
	"ipecd-chatbot-be/internal/model"
	"ipecd-chatbot-be/internal/repository/contract"
	"ipecd-chatbot-be/pkg/learning"

	"gorm.io/gorm"
)

type MemoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryMapper
}

func NewMemoryRepository(db *gorm.DB) contract.MemoryRepository {
	return &MemoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryMapper(),
	}
}

func (r *MemoryRepositoryImpl) FindByNormalized(ctx context.Context, normalized string) (*learning.Entry, error) {
	var m model.MemoryEntry
	err := r.db.WithContext(ctx).Where("normalized_question = ?", normalized).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntry(&m), nil
}

func (r *MemoryRepositoryImpl) FindCandidates(ctx context.Context, tokens []string, limit int) ([]learning.Entry, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Model(&model.MemoryEntry{})
	condition := r.db.Where("normalized_question LIKE ?", "%"+tokens[0]+"%")
	for _, token := range tokens[1:] {
		condition = condition.Or("normalized_question LIKE ?", "%"+token+"%")
	}

	var models []*model.MemoryEntry
	err := query.Where(condition).
		Order("use_count DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntries(models), nil
}

func (r *MemoryRepositoryImpl) Insert(ctx context.Context, entry *learning.Entry) (uint, error) {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return 0, err
	}
	entry.ID = m.ID
	return m.ID, nil
}

func (r *MemoryRepositoryImpl) UpdateResponse(ctx context.Context, id uint, response string, quality float64) error {
	return r.db.WithContext(ctx).
		Model(&model.MemoryEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"response":      response,
			"quality_score": quality,
			"use_count":     gorm.Expr("use_count + 1"),
			"last_used":     time.Now(),
		}).Error
}

func (r *MemoryRepositoryImpl) IncrementUseCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.MemoryEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"use_count": gorm.Expr("use_count + 1"),
			"last_used": time.Now(),
		}).Error
}

func (r *MemoryRepositoryImpl) Suggestions(ctx context.Context, normalized string, limit int) ([]string, error) {
	var questions []string
	err := r.db.WithContext(ctx).
		Model(&model.MemoryEntry{}).
		Where("normalized_question LIKE ?", "%"+normalized+"%").
		Order("use_count DESC").
		Limit(limit).
		Pluck("question", &questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *MemoryRepositoryImpl) Stats(ctx context.Context) (*learning.Stats, error) {
	db := r.db.WithContext(ctx).Model(&model.MemoryEntry{})

	var total, conceptual int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("is_conceptual").Count(&conceptual).Error; err != nil {
		return nil, err
	}

	type categoryCount struct {
		Category string
		Total    int
	}
	var byCategory []categoryCount
	err := db.Session(&gorm.Session{}).
		Select("category, COUNT(*) as total").
		Where("category <> ''").
		Group("category").
		Order("category").
		Scan(&byCategory).Error
	if err != nil {
		return nil, err
	}

	var totalUses int64
	err = db.Session(&gorm.Session{}).
		Select("COALESCE(SUM(use_count), 0)").
		Scan(&totalUses).Error
	if err != nil {
		return nil, err
	}

	var top []*model.MemoryEntry
	err = db.Session(&gorm.Session{}).
		Order("use_count DESC").
		Limit(5).
		Find(&top).Error
	if err != nil {
		return nil, err
	}

	stats := &learning.Stats{
		TotalEntries:        int(total),
		ConceptualQuestions: int(conceptual),
		DataQuestions:       int(total - conceptual),
		Categories:          make(map[string]int, len(byCategory)),
		TotalUses:           int(totalUses),
	}
	for _, c := range byCategory {
		stats.Categories[c.Category] = c.Total
	}
	if total > 0 {
		stats.AverageUses = float64(totalUses) / float64(total)
	}
	for _, entry := range top {
		stats.TopQuestions = append(stats.TopQuestions, learning.TopQuestion{
			Question: entry.Question,
			Uses:     entry.UseCount,
		})
	}
	return stats, nil
}

func (r *MemoryRepositoryImpl) Export(ctx context.Context, minQuality float64) ([]learning.Entry, error) {
	var models []*model.MemoryEntry
	err := r.db.WithContext(ctx).
		Where("quality_score >= ?", minQuality).
		Order("use_count DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntries(models), nil
}
