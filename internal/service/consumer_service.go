package service

import (
	"context"
	"encoding/json"
	"time"

	"ipecd-chatbot-be/internal/dto"
	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/internal/pkg/logger"
	"ipecd-chatbot-be/internal/repository/contract"
	"ipecd-chatbot-be/pkg/events"
	"ipecd-chatbot-be/pkg/learning"
	natspkg "ipecd-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// learnQualityScore is the quality assigned to answers written to the
// memory from live conversations.
const learnQualityScore = 0.8

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains finished chat turns off the in-process queue:
// every turn becomes a chat log row, learnable ones also land in the
// answer memory. Keeping this off the request path keeps /chat latency
// independent of the persistence layer.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	chatLogs  contract.ChatLogRepository
	memory    *learning.Memory
	publisher *natspkg.Publisher
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chatLogs contract.ChatLogRepository,
	memory *learning.Memory,
	publisher *natspkg.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		chatLogs:  chatLogs,
		memory:    memory,
		publisher: publisher,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var turn dto.ChatTurnMessage
	if err := json.Unmarshal(msg.Payload, &turn); err != nil {
		cs.log.Error("CONSUMER", "failed to unmarshal chat turn", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payload never becomes valid, do not retry
		return
	}

	chatLog := &entity.ChatLog{
		Id:        uuid.New(),
		SessionID: turn.SessionID,
		UserInput: turn.UserInput,
		Response:  turn.Response,
		Intent:    turn.Intent,
		Category:  turn.Category,
		Source:    turn.Source,
		Provider:  turn.Provider,
		CreatedAt: time.Now(),
	}
	if turn.Tool != "" {
		chatLog.Details = map[string]interface{}{"tool": turn.Tool}
	}

	if err := cs.chatLogs.Create(ctx, chatLog); err != nil {
		cs.log.Error("CONSUMER", "failed to persist chat log", map[string]interface{}{
			"session": turn.SessionID,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	if turn.Learnable && cs.memory != nil {
		if _, err := cs.memory.Learn(ctx, turn.UserInput, turn.Response, turn.Category, turn.IsConceptual, learnQualityScore); err != nil {
			// The turn is already logged; a memory write failure is not
			// worth replaying the whole message.
			cs.log.Warn("CONSUMER", "memory learn failed", map[string]interface{}{
				"session": turn.SessionID,
				"error":   err.Error(),
			})
		}
	}

	cs.publishRecordedEvent(ctx, turn)
	msg.Ack()
}

// publishRecordedEvent notifies external subscribers over NATS. The bus
// is optional; failures never affect the turn itself.
func (cs *consumerService) publishRecordedEvent(ctx context.Context, turn dto.ChatTurnMessage) {
	if cs.publisher == nil {
		return
	}
	event := events.BaseEvent{
		Type: "CHAT_TURN_RECORDED",
		Data: map[string]interface{}{
			"session_id": turn.SessionID,
			"source":     turn.Source,
			"intent":     turn.Intent,
			"category":   turn.Category,
			"tool":       turn.Tool,
			"learnable":  turn.Learnable,
		},
		OccurredAt: time.Now(),
	}
	if err := cs.publisher.Publish(ctx, event); err != nil {
		cs.log.Warn("CONSUMER", "event publish failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
