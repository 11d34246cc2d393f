package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotTracked means Redis is not configured, so the store cannot
// confirm or deny a session. Callers fall back to the signed token alone.
var ErrSessionNotTracked = errors.New("session store not available")

type sessionRecord struct {
	UserID uint `json:"user_id"`
}

// SessionStore tracks live sessions in Redis so that logout revokes the
// corresponding token before it expires.
type SessionStore struct {
	helper *CacheHelper
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		helper: NewCacheHelper(client, "session:"),
		ttl:    ttl,
	}
}

func (s *SessionStore) Create(ctx context.Context, sessionID string, userID uint) error {
	return s.helper.Set(ctx, sessionID, sessionRecord{UserID: userID}, s.ttl)
}

// Get returns the user id bound to a live session. ErrCacheNotFound means
// the session was revoked or expired; ErrSessionNotTracked means the store
// cannot answer.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (uint, error) {
	var record sessionRecord
	err := s.helper.Get(ctx, sessionID, &record)
	if err != nil {
		if errors.Is(err, ErrCacheNotAvailable) {
			return 0, ErrSessionNotTracked
		}
		return 0, err
	}
	return record.UserID, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.helper.Delete(ctx, sessionID)
}

// Touch extends a live session's lifetime on activity.
func (s *SessionStore) Touch(ctx context.Context, sessionID string) error {
	return s.helper.Expire(ctx, sessionID, s.ttl)
}
