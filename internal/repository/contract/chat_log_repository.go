package contract

import (
	"context"

	"ipecd-chatbot-be/internal/entity"
)

type ChatLogRepository interface {
	Create(ctx context.Context, log *entity.ChatLog) error
	FindRecent(ctx context.Context, limit int) ([]*entity.ChatLog, error)
	FindBySession(ctx context.Context, sessionID string, limit int) ([]*entity.ChatLog, error)
	Count(ctx context.Context) (int64, error)
}
