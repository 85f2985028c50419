package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chat:session:"

// SessionRepository stores conversation state in Redis so several
// instances can share sessions. Redis hiccups degrade to a cache miss:
// the caller starts a fresh session instead of failing the request.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(redisURL string, ttl time.Duration) (*SessionRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func (r *SessionRepository) Get(sessionID string) (*entity.ChatSession, bool) {
	ctx := context.Background()
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[SESSION] redis get failed: %v", err)
		}
		return nil, false
	}

	var session entity.ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		log.Printf("[SESSION] corrupt session %s, discarding: %v", sessionID, err)
		r.Delete(sessionID)
		return nil, false
	}

	session.LastActive = time.Now()
	r.client.Expire(ctx, keyPrefix+sessionID, r.ttl)
	return &session, true
}

func (r *SessionRepository) Save(session *entity.ChatSession) {
	session.LastActive = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		log.Printf("[SESSION] marshal session %s failed: %v", session.ID, err)
		return
	}
	if err := r.client.Set(context.Background(), keyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		log.Printf("[SESSION] redis set failed: %v", err)
	}
}

func (r *SessionRepository) Delete(sessionID string) {
	if err := r.client.Del(context.Background(), keyPrefix+sessionID).Err(); err != nil {
		log.Printf("[SESSION] redis del failed: %v", err)
	}
}
