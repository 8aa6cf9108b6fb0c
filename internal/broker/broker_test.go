package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quizblog/gateway/internal/models"
)

type recordingSink struct {
	mu     sync.Mutex
	name   string
	events []models.DomainEvent
	err    error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, e models.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.events {
		out = append(out, e.Topic)
	}
	return out
}

func event(topic, key string) models.DomainEvent {
	return models.DomainEvent{Topic: topic, Key: key, OccurredAt: time.Now(), Payload: map[string]string{"k": key}}
}

func TestAsync_FansOutToEverySink(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("boom")}
	ok := &recordingSink{name: "ok"}
	a := NewAsync(zap.NewNop(), 10, failing, ok)

	a.Publish(event(models.TopicContactSubmitted, "c1"))
	a.Publish(event(models.TopicContactClaimed, "c1"))
	require.NoError(t, a.Close())

	want := []string{models.TopicContactSubmitted, models.TopicContactClaimed}
	assert.Equal(t, want, ok.topics())
	assert.Equal(t, want, failing.topics())
}

func TestAsync_PublishAfterClose(t *testing.T) {
	sink := &recordingSink{name: "ok"}
	a := NewAsync(zap.NewNop(), 1, sink)
	require.NoError(t, a.Close())

	a.Publish(event(models.TopicQuizJoined, "q1"))
	assert.Empty(t, sink.topics())
	assert.ErrorIs(t, a.Close(), ErrClosed)
}

type fakeRedis struct {
	calls   int
	failFor int
	channel string
	payload []byte
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.calls++
	if f.calls <= f.failFor {
		return redis.NewIntResult(0, errors.New("connection reset"))
	}
	f.channel = channel
	f.payload = message.([]byte)
	return redis.NewIntResult(1, nil)
}

func TestRedisSink_RetriesThenPublishes(t *testing.T) {
	fake := &fakeRedis{failFor: 1}
	sink := &RedisSink{client: fake, channel: "quizblog:events", log: zap.NewNop()}

	require.NoError(t, sink.Publish(context.Background(), event(models.TopicQuizLeft, "q1")))
	assert.Equal(t, 2, fake.calls)
	assert.Equal(t, "quizblog:events", fake.channel)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(fake.payload, &decoded))
	assert.Equal(t, models.TopicQuizLeft, decoded["topic"])
	assert.Equal(t, "q1", decoded["key"])
}

func TestRedisSink_GivesUp(t *testing.T) {
	fake := &fakeRedis{failFor: 100}
	sink := &RedisSink{client: fake, channel: "c", log: zap.NewNop()}

	err := sink.Publish(context.Background(), event(models.TopicQuizLeft, "q1"))
	assert.Error(t, err)
	assert.Equal(t, maxRetries+1, fake.calls)
}

func TestKafkaSink_Publish(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded models.DomainEvent
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded.Topic != models.TopicContactResolved {
			return errors.New("unexpected topic " + decoded.Topic)
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndSucceed()

	sink := newKafkaSink(producer, "quizblog.events", zap.NewNop())
	require.NoError(t, sink.Publish(context.Background(), event(models.TopicContactResolved, "c9")))
	require.NoError(t, sink.Publish(context.Background(), event(models.TopicContactResolved, "c9")))
	require.NoError(t, sink.Close())
}
