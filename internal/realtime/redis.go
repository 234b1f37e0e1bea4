package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
)

// RedisFeed is a Feed backed by redis pub/sub so every API instance sees
// writes made by the others.
type RedisFeed struct {
	client *redis.Client
	prefix string
	log    *slog.Logger
}

func NewRedisFeed(client *redis.Client, prefix string, log *slog.Logger) *RedisFeed {
	if log == nil {
		log = slog.Default()
	}
	return &RedisFeed{
		client: client,
		prefix: prefix,
		log:    log.With(slog.String("component", "realtime.redis")),
	}
}

func (f *RedisFeed) channel(roomID uuid.UUID) string {
	return fmt.Sprintf("%sroom:%s:changes", f.prefix, roomID)
}

func (f *RedisFeed) Publish(ctx context.Context, change Change) error {
	const op = "realtime.redis.publish"

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.client.Publish(ctx, f.channel(change.RoomID), payload).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, roomID uuid.UUID) (<-chan Change, func(), error) {
	const op = "realtime.redis.subscribe"

	pubsub := f.client.Subscribe(ctx, f.channel(roomID))
	// Wait for the subscription to be confirmed so no publish is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan Change, 1)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			change, err := decodeChange(msg.Payload)
			if err != nil {
				f.log.Warn("dropping malformed change", slog.String("channel", msg.Channel), sl.Err(err))
				continue
			}
			offer(out, change)
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				f.log.Debug("pubsub close", sl.Err(err))
			}
		})
	}

	return out, cancel, nil
}

func decodeChange(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, err
	}
	if change.RoomID == uuid.Nil {
		return Change{}, errors.New("change without room id")
	}
	return change, nil
}
