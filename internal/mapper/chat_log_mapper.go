package mapper

import (
	"encoding/json"

	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/internal/model"
)

type ChatLogMapper struct{}

func NewChatLogMapper() *ChatLogMapper {
	return &ChatLogMapper{}
}

func (m *ChatLogMapper) ToEntity(l *model.ChatLog) *entity.ChatLog {
	if l == nil {
		return nil
	}

	var details map[string]interface{}
	if len(l.Details) > 0 {
		// A malformed details blob should not hide the log row itself.
		_ = json.Unmarshal(l.Details, &details)
	}

	return &entity.ChatLog{
		Id:        l.Id,
		SessionID: l.SessionID,
		UserInput: l.UserInput,
		Response:  l.Response,
		Intent:    l.Intent,
		Category:  l.Category,
		Source:    l.Source,
		Provider:  l.Provider,
		Details:   details,
		CreatedAt: l.CreatedAt,
	}
}

func (m *ChatLogMapper) ToModel(l *entity.ChatLog) (*model.ChatLog, error) {
	if l == nil {
		return nil, nil
	}

	var details []byte
	if l.Details != nil {
		encoded, err := json.Marshal(l.Details)
		if err != nil {
			return nil, err
		}
		details = encoded
	}

	return &model.ChatLog{
		Id:        l.Id,
		SessionID: l.SessionID,
		UserInput: l.UserInput,
		Response:  l.Response,
		Intent:    l.Intent,
		Category:  l.Category,
		Source:    l.Source,
		Provider:  l.Provider,
		Details:   details,
		CreatedAt: l.CreatedAt,
	}, nil
}

func (m *ChatLogMapper) ToEntities(models []*model.ChatLog) []*entity.ChatLog {
	entities := make([]*entity.ChatLog, 0, len(models))
	for _, mdl := range models {
		if e := m.ToEntity(mdl); e != nil {
			entities = append(entities, e)
		}
	}
	return entities
}
