package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// EventType определяет тип события
type EventType string

const (
	// Cart события
	EventTypeCartUpdated       EventType = "cart.updated"
	EventTypeCheckoutUpdated   EventType = "checkout.updated"
	EventTypeCheckoutCompleted EventType = "checkout.completed"

	// Order события
	EventTypeOrderCreated EventType = "order.created"
)

// Topics для Kafka
const (
	TopicCartEvents      = "commerce.cart.events"
	TopicOrderEvents     = "commerce.order.events"
	TopicDeadLetterQueue = "commerce.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// CartEvent представляет событие корзины
type CartEvent struct {
	EventType EventType              `json:"event_type"`
	CartID    string                 `json:"cart_id"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType EventType              `json:"event_type"`
	OrderID   string                 `json:"order_id"`
	Number    string                 `json:"number"`
	UserID    string                 `json:"user_id,omitempty"`
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewCartEvent создает новое событие корзины
func NewCartEvent(eventType EventType, cartID string, metadata map[string]interface{}) *CartEvent {
	return &CartEvent{
		EventType: eventType,
		CartID:    cartID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, number, userID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		Number:    number,
		UserID:    userID,
		Status:    status,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// ParseCartEvent парсит CartEvent из сообщения
func ParseCartEvent(message *sarama.ConsumerMessage) (*CartEvent, error) {
	var event CartEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart event: %w", err)
	}
	return &event, nil
}

// ParseOrderEvent парсит OrderEvent из сообщения
func ParseOrderEvent(message *sarama.ConsumerMessage) (*OrderEvent, error) {
	var event OrderEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	return &event, nil
}
