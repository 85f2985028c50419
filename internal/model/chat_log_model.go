package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID string         `gorm:"type:varchar(64);index;not null"`
	UserInput string         `gorm:"type:text;not null"`
	Response  string         `gorm:"type:text"`
	Intent    string         `gorm:"type:varchar(32)"`
	Category  string         `gorm:"type:varchar(64)"`
	Source    string         `gorm:"type:varchar(16)"`
	Provider  string         `gorm:"type:varchar(32)"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}
