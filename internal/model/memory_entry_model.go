package model

import "time"

// MemoryEntry persists one learned question/answer pair. The normalized
// question carries an index because both the exact-match lookup and the
// candidate scan filter on it.
type MemoryEntry struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement"`
	QuestionKey        string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Question           string `gorm:"type:text;not null"`
	NormalizedQuestion string `gorm:"type:text;not null;index"`
	Response           string `gorm:"type:text;not null"`
	Category           string `gorm:"type:varchar(64);index"`
	IsConceptual       bool
	QualityScore       float64
	UseCount           int
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	LastUsed           time.Time `gorm:"autoUpdateTime"`
}

func (MemoryEntry) TableName() string {
	return "memory_entries"
}
