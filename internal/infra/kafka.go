package infra

import (
	"github.com/segmentio/kafka-go"
)

const playbackTopic = "playback-events"

// MakeKafkaProducer returns a writer for the playback analytics topic, or
// nil when no broker is configured (event publishing disabled).
func MakeKafkaProducer(kafkaHost string) *kafka.Writer {
	if kafkaHost == "" {
		return nil
	}

	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:  []string{kafkaHost},
		Topic:    playbackTopic,
		Balancer: &kafka.LeastBytes{},
	})
}
