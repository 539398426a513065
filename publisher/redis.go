// Package publisher relays decoded event batches to downstream consumers
// over Redis pub/sub.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solstream/stream"
)

const (
	defaultURL     = "redis://localhost:6379/0"
	defaultChannel = "events"

	urlEnv     = "REDIS_URL"
	channelEnv = "EVENTS_CHANNEL"
)

type Config struct {
	URL     string
	Channel string
}

func ConfigFromEnv() Config {
	cfg := Config{
		URL:     defaultURL,
		Channel: defaultChannel,
	}
	if url := os.Getenv(urlEnv); url != "" {
		cfg.URL = url
	}
	if channel := os.Getenv(channelEnv); channel != "" {
		cfg.Channel = channel
	}
	return cfg
}

// RedisPublisher publishes each batch as one JSON array of tagged events.
// Subscribers key batches implicitly by the shared transaction signature
// inside each event.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *logrus.Logger
}

func NewRedisPublisher(cfg Config, log *logrus.Logger) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisPublisher{
		client:  client,
		channel: cfg.Channel,
		log:     log,
	}, nil
}

func (r *RedisPublisher) Publish(ctx context.Context, batch []stream.Event) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshaling event batch: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", r.channel, err)
	}

	r.log.Debugf("published %d events to %s", len(batch), r.channel)
	return nil
}

func (r *RedisPublisher) Close() error {
	return r.client.Close()
}
