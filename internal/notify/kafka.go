package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Kafka is a Notifier bridged over a Kafka topic so that sessions in
// different processes observe each other's writes. Message key is the
// storage key, message value the Change JSON. Local dispatch reuses the
// in-process notifier, so ordering and origin-skipping behave the same.
type Kafka struct {
	writer  *kafka.Writer
	reader  *kafka.Reader
	local   *Memory
	baseCtx context.Context
}

// NewKafka connects the notifier to the given brokers and topic. groupID
// must be unique per process: every session needs to see every change,
// not share a consumer group with its siblings.
func NewKafka(ctx context.Context, brokers []string, topic, groupID string) *Kafka {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Kafka{
		writer:  writer,
		reader:  reader,
		local:   NewMemory(),
		baseCtx: ctx,
	}
}

func (k *Kafka) Publish(change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(k.baseCtx, kafka.Message{
		Key:   []byte(change.Key),
		Value: data,
		Time:  time.Now(),
	})
}

func (k *Kafka) Subscribe(key, origin string, fn func(Change)) func() {
	return k.local.Subscribe(key, origin, fn)
}

// Run consumes the topic and fans messages out to local subscribers.
// It blocks until ctx is cancelled.
func (k *Kafka) Run(ctx context.Context) error {
	for {
		msg, err := k.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[Notify] error reading message: %v", err)
			continue
		}

		var change Change
		if err := json.Unmarshal(msg.Value, &change); err != nil {
			log.Printf("[Notify] dropping malformed change for key %q: %v", string(msg.Key), err)
			continue
		}
		if err := k.local.Publish(change); err != nil {
			log.Printf("[Notify] error dispatching change for %q: %v", change.Key, err)
		}
	}
}

func (k *Kafka) Close() error {
	werr := k.writer.Close()
	rerr := k.reader.Close()
	k.local.Close()
	if werr != nil {
		return werr
	}
	return rerr
}
