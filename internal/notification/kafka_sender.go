package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender publishes notices for a downstream mail service.
type KafkaSender struct {
	writer messageWriter
}

type kafkaPayload struct {
	Notice
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (s *KafkaSender) Send(ctx context.Context, n Notice) error {
	subject, body := n.Message()

	value, err := json.Marshal(kafkaPayload{Notice: n, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(n.AppointmentID), 10)),
		Value: value,
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}
	return nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
