package memory

import (
	"time"

	"ipecd-chatbot-be/internal/entity"
	"ipecd-chatbot-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps conversation state in-process. Sessions expire
// with the configured TTL; Get re-arms the deadline so an ongoing
// conversation stays alive as long as the user keeps typing.
type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(ttl, purgeEvery time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if purgeEvery <= 0 {
		purgeEvery = 10 * time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, purgeEvery),
	}
}

func (r *SessionRepository) Get(sessionID string) (*entity.ChatSession, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	session := x.(*entity.ChatSession)
	session.LastActive = time.Now()
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session, true
}

func (r *SessionRepository) Save(session *entity.ChatSession) {
	session.LastActive = time.Now()
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
