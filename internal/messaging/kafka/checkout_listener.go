package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/commerce/internal/checkout"
	"github.com/vladislavdragonenkov/commerce/internal/domain"
	"github.com/vladislavdragonenkov/commerce/internal/order"
)

// shippingLineName — название строки доставки в заказе.
const shippingLineName = "Shipping"

// NewCheckoutCompletedHandler строит MessageHandler, который оформляет заказ
// из корзины по событию завершения checkout. Состояние корзины перечитывается
// из хранилища; закэшированная стоимость доставки из checkout добавляется
// отдельной строкой заказа.
func NewCheckoutCompletedHandler(
	carts domain.CartRepository,
	checkouts *checkout.Store,
	factory *order.Factory,
	logger *log.Entry,
) MessageHandler {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	logger = logger.WithField("component", "checkout_completed_handler")

	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		event, err := ParseCartEvent(message)
		if err != nil {
			return err
		}

		if event.EventType != EventTypeCheckoutCompleted || event.CartID == "" {
			logger.WithFields(log.Fields{
				"event_type": event.EventType,
				"cart_id":    event.CartID,
			}).Debug("checkout event skipped")
			return nil
		}

		cart, err := carts.Get(ctx, event.CartID)
		if err != nil {
			if domain.IsNotFound(err) {
				// Корзина уже удалена: событие устарело, retry не поможет.
				logger.WithField("cart_id", event.CartID).Warn("checkout completed for missing cart skipped")
				return nil
			}
			return fmt.Errorf("load cart %q: %w", event.CartID, err)
		}

		items := make([]order.ItemData, 0, len(cart.Items)+1)
		for _, item := range cart.Items {
			items = append(items, order.ItemData{
				ProductID:  item.ProductID,
				Name:       item.Name,
				PriceMinor: item.PriceMinor,
				Qty:        item.Qty,
			})
		}
		if co, ok := checkouts.Get(cart.ID); ok && co.ShippingAmountMinor > 0 {
			items = append(items, order.ItemData{
				Name:       shippingLineName,
				PriceMinor: co.ShippingAmountMinor,
				Qty:        1,
			})
		}

		placed, err := factory.CreateFromData(ctx, order.OrderData{
			UserID:   cart.UserID,
			Currency: cart.Currency,
		}, items)
		if err != nil {
			if errors.Is(err, domain.ErrOrderItemsRequired) {
				// Пустая корзина: заказ оформить нельзя, retry не поможет.
				logger.WithField("cart_id", event.CartID).Warn("checkout completed for empty cart skipped")
				return nil
			}
			return fmt.Errorf("place order for cart %q: %w", event.CartID, err)
		}

		checkouts.Release(cart.ID)
		logger.WithFields(log.Fields{
			"cart_id":  cart.ID,
			"order_id": placed.ID,
			"number":   placed.Number,
		}).Info("order placed from completed checkout")
		return nil
	}
}

// DispatchByEventType маршрутизирует сообщение по полю event_type payload.
// События без зарегистрированного обработчика пропускаются.
func DispatchByEventType(routes map[EventType]MessageHandler, logger *log.Entry) MessageHandler {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	logger = logger.WithField("component", "event_dispatcher")

	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		var envelope struct {
			EventType EventType `json:"event_type"`
		}
		if err := json.Unmarshal(message.Value, &envelope); err != nil {
			return fmt.Errorf("parse event envelope: %w", err)
		}

		handler, ok := routes[envelope.EventType]
		if !ok {
			logger.WithField("event_type", envelope.EventType).Debug("event without handler skipped")
			return nil
		}
		return handler(ctx, message)
	}
}
