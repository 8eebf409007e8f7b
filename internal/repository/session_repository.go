package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esn-apps/scholarship-review-api/internal/models"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

// SessionRepository round-trips review sessions through Redis. One
// session exists per reviewer; the key is removed entirely when the
// session ends, so a stored record always means an active session.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(reviewerID string) string {
	return fmt.Sprintf("review_session:%s", reviewerID)
}

// Load fetches the reviewer's active session. ErrNoActiveSession is
// returned when none is stored.
func (r *SessionRepository) Load(ctx context.Context, reviewerID string) (*models.ReviewSession, error) {
	raw, err := r.client.Get(ctx, sessionKey(reviewerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrNoActiveSession
		}
		return nil, fmt.Errorf("load session %s: %w", reviewerID, err)
	}
	var session models.ReviewSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", reviewerID, err)
	}
	return &session, nil
}

// Save persists the session, refreshing its TTL.
func (r *SessionRepository) Save(ctx context.Context, session *models.ReviewSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ReviewerID, err)
	}
	if err := r.client.Set(ctx, sessionKey(session.ReviewerID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", session.ReviewerID, err)
	}
	return nil
}

// Delete removes the stored session record.
func (r *SessionRepository) Delete(ctx context.Context, reviewerID string) error {
	if err := r.client.Del(ctx, sessionKey(reviewerID)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", reviewerID, err)
	}
	return nil
}
