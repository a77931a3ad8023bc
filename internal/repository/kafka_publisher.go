package repository

import (
	"context"

	"EntryFeed/internal/domain/models"
	"EntryFeed/internal/domain/repository"
	"EntryFeed/pkg/kafka"
)

type kafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaPublisher emits signal records to a Kafka topic, keyed by pair so
// consumers see per-pair ordering.
func NewKafkaPublisher(producer *kafka.Producer, topic string) repository.SignalPublisher {
	return &kafkaPublisher{producer: producer, topic: topic}
}

func (k *kafkaPublisher) PublishSignals(ctx context.Context, signals []models.SignalRecord) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(signals))
	for _, s := range signals {
		msgs = append(msgs, kafka.Message{Key: []byte(s.Pair), Value: s})
	}
	return k.producer.PublishBatch(ctx, k.topic, msgs)
}

func (k *kafkaPublisher) Close() error {
	return k.producer.Close()
}
