package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/verte-zerg/cogni/internal/model"
)

// DefaultTopic receives result events when no topic is configured.
const DefaultTopic = "game-results"

// ResultEvent is the Kafka message value.
type ResultEvent struct {
	Type   string              `json:"type"`
	Result model.ResultPayload `json:"result"`
}

// KafkaSink publishes results to a Kafka topic keyed by game id.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafka connects a synchronous producer to brokers.
func NewKafka(brokers []string, topic string) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect kafka producer: %w", err)
	}
	return NewKafkaWithProducer(producer, topic), nil
}

// NewKafkaWithProducer wraps an existing producer.
func NewKafkaWithProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaSink{producer: producer, topic: topic}
}

// Submit publishes one payload. The producer call is not interruptible, so ctx
// is only checked before sending.
func (s *KafkaSink) Submit(ctx context.Context, payload model.ResultPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ResultEvent{Type: "game_result", Result: payload})
	if err != nil {
		return fmt.Errorf("failed to encode result event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(payload.GameID),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send result event: %w", err)
	}
	return nil
}

// Close closes the producer.
func (s *KafkaSink) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
