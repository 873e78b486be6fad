package kafka_journal

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/sandcastle-labs/sandcastle/journal"
)

const (
	kafkaMinBytes    = 10
	kafkaMaxBytes    = 10e6
	kafkaMaxAttempts = 16

	readDeadline = 10 * time.Second
)

var _ journal.Journal = (*KafkaJournal)(nil)

type KafkaAuthCredentials struct {
	Username string
	Password string
}

func (c *KafkaAuthCredentials) Mechanism() *plain.Mechanism {
	if c == nil {
		return nil
	}
	return &plain.Mechanism{
		Username: c.Username,
		Password: c.Password,
	}
}

// KafkaJournal streams audit entries through a kafka topic, for
// deployments where several nodes share one trail.
type KafkaJournal struct {
	reader *kafka.Reader
	writer *kafka.Writer

	tlsConfig                            *tls.Config
	producerCreds, consumerCreds         *plain.Mechanism
	brokerEndpoint, consumerGroup, topic string
	timeout                              time.Duration
}

func NewKafkaJournal(
	brokerEndpoint,
	topic,
	consumerGroup string,
	tlsConfig *tls.Config,
	producerCreds,
	consumerCreds *plain.Mechanism,
	timeout time.Duration,
) (*KafkaJournal, error) {
	kj := &KafkaJournal{
		brokerEndpoint: brokerEndpoint,
		topic:          topic,
		consumerGroup:  consumerGroup,
		tlsConfig:      tlsConfig,
		producerCreds:  producerCreds,
		consumerCreds:  consumerCreds,
		timeout:        timeout,
	}
	if err := kj.reset(); err != nil {
		return nil, fmt.Errorf("failed to create a KafkaJournal: %w", err)
	}

	return kj, nil
}

func (kj *KafkaJournal) Append(entries ...journal.Entry) error {
	kafkaMessages := make([]kafka.Message, len(entries))
	for i, e := range entries {
		e.ID = uuid.New().String()
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now().UTC()
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal an entry %v: %w", e, err)
		}
		kafkaMessages[i] = kafka.Message{Key: []byte(e.ID), Value: data}
	}

	if err := kj.writer.WriteMessages(context.Background(), kafkaMessages...); err != nil {
		return fmt.Errorf("failed to WriteMessages: %w", err)
	}

	return nil
}

// Entries drains the topic until the read deadline expires. The kafka
// consumer group tracks position, so the offset argument is ignored and
// entries carry their topic offset instead.
func (kj *KafkaJournal) Entries(_ uint64) ([]journal.Entry, error) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(readDeadline))
	defer cancel()

	var entries []journal.Entry
	for {
		kafkaMessage, err := kj.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return nil, fmt.Errorf("failed to ReadMessage: %w", err)
		}

		var e journal.Entry
		if err = json.Unmarshal(kafkaMessage.Value, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal an entry %s: %w",
				string(kafkaMessage.Value), err)
		}
		e.Offset = uint64(kafkaMessage.Offset)
		entries = append(entries, e)
	}

	return entries, nil
}

func (kj *KafkaJournal) Close() error {
	if kj.reader != nil {
		if err := kj.reader.Close(); err != nil {
			return fmt.Errorf("failed to Close reader: %w", err)
		}
	}

	if kj.writer != nil {
		if err := kj.writer.Close(); err != nil {
			return fmt.Errorf("failed to Close writer: %w", err)
		}
	}

	return nil
}

func (kj *KafkaJournal) reset() error {
	if err := kj.Close(); err != nil {
		return fmt.Errorf("failed to Close connections: %w", err)
	}

	kj.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{kj.brokerEndpoint},
		GroupID:     kj.consumerGroup,
		Topic:       kj.topic,
		MinBytes:    kafkaMinBytes,
		MaxBytes:    kafkaMaxBytes,
		MaxAttempts: kafkaMaxAttempts,
		Dialer: &kafka.Dialer{
			Timeout:       kj.timeout,
			DualStack:     true,
			TLS:           kj.tlsConfig,
			SASLMechanism: kj.consumerCreds,
		},
	})

	kj.writer = &kafka.Writer{
		Addr:         kafka.TCP(kj.brokerEndpoint),
		Topic:        kj.topic,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  kafkaMaxAttempts,
		BatchTimeout: kj.timeout,
		ReadTimeout:  kj.timeout,
		WriteTimeout: kj.timeout,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{
				Timeout: kj.timeout,
			}).DialContext,
			TLS:  kj.tlsConfig,
			SASL: kj.producerCreds,
		},
	}

	return nil
}
