package memory

import (
	"time"

	"ai-imagestudio-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps per-session conversation history in memory so the
// multimodal engine can be given multi-turn context for iterative edits.
// History is transient; the durable record of a generation is the
// generated_images row.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions expire after an hour of inactivity, purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Get(sessionID string) ([]entity.ConversationTurn, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.([]entity.ConversationTurn), true
	}
	return nil, false
}

func (r *SessionRepository) Append(sessionID string, turns ...entity.ConversationTurn) {
	history, _ := r.Get(sessionID)
	history = append(history, turns...)
	r.cache.Set(sessionID, history, cache.DefaultExpiration)
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
