package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
	"github.com/vladislavdragonenkov/commerce/internal/events"
)

// NewCartEventHandler строит MessageHandler, который превращает Kafka-события
// корзин во внутренние события шины. Корзина перечитывается из хранилища:
// payload события несёт только идентификатор, не состояние.
func NewCartEventHandler(carts domain.CartRepository, bus *events.Bus, logger *log.Entry) MessageHandler {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	logger = logger.WithField("component", "cart_event_handler")

	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		event, err := ParseCartEvent(message)
		if err != nil {
			return err
		}

		if event.EventType != EventTypeCartUpdated || event.CartID == "" {
			logger.WithFields(log.Fields{
				"event_type": event.EventType,
				"cart_id":    event.CartID,
			}).Debug("cart event skipped")
			return nil
		}

		cart, err := carts.Get(ctx, event.CartID)
		if err != nil {
			if domain.IsNotFound(err) {
				// Корзина уже удалена: событие устарело, retry не поможет.
				logger.WithField("cart_id", event.CartID).Warn("cart event for missing cart skipped")
				return nil
			}
			return fmt.Errorf("load cart %q: %w", event.CartID, err)
		}

		bus.Publish(ctx, events.CartUpdated{Cart: &cart})
		return nil
	}
}
