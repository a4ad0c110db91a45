package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"f0oster/regwatch/logging"
)

// Alert is the JSON payload published to the alert channel.
type Alert struct {
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Priority Priority  `json:"priority"`
	SentAt   time.Time `json:"sentAt"`
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes alerts on a Redis pub/sub channel.
type RedisSink struct {
	log     *logging.Logger
	rdb     publisher
	closer  func() error
	channel string
	now     func() time.Time
}

// NewRedisSink connects to addr and verifies the connection with a ping.
func NewRedisSink(log *logging.Logger, addr, channel string) (*RedisSink, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if channel == "" {
		channel = "regwatch.alerts"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisSink{
		log:     log.With("sink", "RedisSink"),
		rdb:     rdb,
		closer:  rdb.Close,
		channel: channel,
		now:     time.Now,
	}, nil
}

func (s *RedisSink) Notify(ctx context.Context, subject, body string, priority Priority) error {
	raw, err := json.Marshal(Alert{
		Subject:  subject,
		Body:     body,
		Priority: priority,
		SentAt:   s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	receivers, err := s.rdb.Publish(ctx, s.channel, raw).Result()
	if err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	s.log.Debug("alert published", "channel", s.channel, "receivers", receivers)
	return nil
}

func (s *RedisSink) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}
