package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"quizblog/gateway/internal/models"
)

// KafkaSink writes every event to one topic, keyed by the event key so a
// ticket's or quiz's events stay ordered within a partition.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafkaSink(brokers []string, topic string, log *zap.Logger) (*KafkaSink, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = maxRetries
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return newKafkaSink(producer, topic, log), nil
}

func newKafkaSink(producer sarama.SyncProducer, topic string, log *zap.Logger) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic, log: log}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx context.Context, event models.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_topic"), Value: []byte(event.Topic)},
		},
		Timestamp: time.Now(),
	}

	return retry(ctx, s.Name(), s.log, func() error {
		_, _, err := s.producer.SendMessage(msg)
		return err
	})
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
