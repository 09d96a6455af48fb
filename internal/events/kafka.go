// internal/events/kafka.go
package events

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// KafkaPublisher mirrors order events onto a Kafka topic for downstream
// consumers (analytics, fulfillment). It is optional; the API works the
// same without brokers configured.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &KafkaPublisher{producer: producer, topic: topic}, nil
}

// HandleOrderCreated is a Dispatcher handler. Delivery failures are
// logged, never surfaced to the buyer.
func (p *KafkaPublisher) HandleOrderCreated(event OrderCreated) {
	payload, err := json.Marshal(map[string]interface{}{
		"event_type": "order.created",
		"data": map[string]interface{}{
			"order_number":   event.Order.OrderNumber,
			"user_id":        event.Order.UserID.String(),
			"total_price":    event.Order.TotalPrice,
			"payment_method": event.Order.PaymentMethod,
			"status":         event.Order.Status,
			"created_at":     event.Order.CreatedAt,
		},
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to encode order event")
		return
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Order.OrderNumber),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		logrus.WithError(err).WithField("order_number", event.Order.OrderNumber).
			Error("Failed to publish order event to Kafka")
	}
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
