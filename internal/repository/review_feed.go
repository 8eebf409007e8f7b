package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/esn-apps/scholarship-review-api/internal/models"
)

// ReviewFeed publishes and subscribes to live review updates, one
// channel per edition partition. Subscribers must call the returned
// stop function when the edition changes or the consumer goes away.
type ReviewFeed struct {
	client *redis.Client
	logger *zap.Logger
}

// NewReviewFeed constructs a ReviewFeed.
func NewReviewFeed(client *redis.Client, logger *zap.Logger) *ReviewFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewFeed{client: client, logger: logger}
}

func feedChannel(editionID string) string {
	return fmt.Sprintf("reviews:%s", editionID)
}

// Publish broadcasts a review change to the edition's subscribers.
func (f *ReviewFeed) Publish(ctx context.Context, event models.ReviewEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode review event: %w", err)
	}
	if err := f.client.Publish(ctx, feedChannel(event.EditionID), payload).Err(); err != nil {
		return fmt.Errorf("publish review event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of review events for the edition and a
// stop function that tears the subscription down. The event channel is
// closed after stop is called or the context is cancelled.
func (f *ReviewFeed) Subscribe(ctx context.Context, editionID string) (<-chan models.ReviewEvent, func(), error) {
	sub := f.client.Subscribe(ctx, feedChannel(editionID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe reviews %s: %w", editionID, err)
	}

	events := make(chan models.ReviewEvent)
	done := make(chan struct{})

	go func() {
		defer close(events)
		src := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				var event models.ReviewEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.Warn("dropping malformed review event", zap.String("edition_id", editionID), zap.Error(err))
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			if err := sub.Close(); err != nil {
				f.logger.Warn("failed to close review subscription", zap.String("edition_id", editionID), zap.Error(err))
			}
		})
	}
	return events, stop, nil
}
