package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f0oster/regwatch/logging"
)

type stubSink struct {
	calls int
	err   error
}

func (s *stubSink) Notify(context.Context, string, string, Priority) error {
	s.calls++
	return s.err
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(logging.NewNop())
	assert.NoError(t, sink.Notify(context.Background(), "subject", "a\nb", PriorityHigh))
}

func TestMulti_DeliversToEverySink(t *testing.T) {
	failing := &stubSink{err: errors.New("smtp unavailable")}
	ok := &stubSink{}

	err := Multi{failing, ok}.Notify(context.Background(), "s", "b", PriorityMedium)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink 0: smtp unavailable")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)

	assert.NoError(t, Multi{ok}.Notify(context.Background(), "s", "b", PriorityLow))
	assert.NoError(t, Multi{}.Notify(context.Background(), "s", "b", PriorityLow))
}

type fakePublisher struct {
	channel string
	message interface{}
	err     error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	p.channel = channel
	p.message = message
	return redis.NewIntResult(1, p.err)
}

func TestRedisSink_PublishesJSON(t *testing.T) {
	sentAt := time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)
	pub := &fakePublisher{}
	sink := &RedisSink{
		log:     logging.NewNop(),
		rdb:     pub,
		channel: "regwatch.alerts",
		now:     func() time.Time { return sentAt },
	}

	err := sink.Notify(context.Background(), "1 critical regulatory changes detected", "doc-1: Status changed", PriorityHigh)
	require.NoError(t, err)

	assert.Equal(t, "regwatch.alerts", pub.channel)
	raw, ok := pub.message.([]byte)
	require.True(t, ok)

	var alert Alert
	require.NoError(t, json.Unmarshal(raw, &alert))
	assert.Equal(t, Alert{
		Subject:  "1 critical regulatory changes detected",
		Body:     "doc-1: Status changed",
		Priority: PriorityHigh,
		SentAt:   sentAt,
	}, alert)
}

func TestRedisSink_PublishError(t *testing.T) {
	sink := &RedisSink{
		log:     logging.NewNop(),
		rdb:     &fakePublisher{err: errors.New("connection refused")},
		channel: "regwatch.alerts",
		now:     time.Now,
	}

	err := sink.Notify(context.Background(), "s", "b", PriorityHigh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish alert")
}

func TestNewRedisSink_RequiresAddress(t *testing.T) {
	_, err := NewRedisSink(logging.NewNop(), "", "")
	assert.Error(t, err)

	var nilSink *RedisSink
	assert.NoError(t, nilSink.Close())
}
