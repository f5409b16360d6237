package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tickgate/internal/tickets"

	"github.com/IBM/sarama"
)

// ScanFeedConfig configures the Kafka publisher for the scan-event feed.
type ScanFeedConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	Timeout      time.Duration
	RequiredAcks sarama.RequiredAcks
}

func DefaultScanFeedConfig() *ScanFeedConfig {
	return &ScanFeedConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "ticket-scans",
		RetryMax:     3,
		Timeout:      10 * time.Second,
		RequiredAcks: sarama.WaitForAll,
	}
}

// ScanFeedProducer publishes every scan audit record to Kafka for downstream
// consumers. Messages are keyed by ticket code so all scans of one ticket
// land on the same partition in order.
type ScanFeedProducer struct {
	producer sarama.SyncProducer
	config   *ScanFeedConfig
}

func NewScanFeedProducer(config *ScanFeedConfig) (*ScanFeedProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &ScanFeedProducer{producer: producer, config: config}, nil
}

// PublishScanEvent satisfies the tickets package's ScanEventPublisher.
func (p *ScanFeedProducer) PublishScanEvent(ctx context.Context, event *tickets.ScanEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal scan event: %w", err)
	}

	headers := []sarama.RecordHeader{
		{Key: []byte("outcome"), Value: []byte(event.Outcome)},
		{Key: []byte("scanned_by"), Value: []byte(event.ScannedBy.String())},
		{Key: []byte("scanned_at"), Value: []byte(event.ScannedAt.Format(time.RFC3339))},
	}
	if event.EventID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("event_id"),
			Value: []byte(event.EventID.String()),
		})
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(event.TicketCode),
		Value:     sarama.ByteEncoder(payload),
		Headers:   headers,
		Timestamp: event.ScannedAt,
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to publish scan event: %w", err)
	}
	return nil
}

func (p *ScanFeedProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}
