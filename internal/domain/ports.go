package domain

import "context"

// OrderNumberGenerator выдаёт номер заказа, когда он не задан вызывающей стороной.
type OrderNumberGenerator interface {
	// GenerateNumber возвращает уникальный номер для создаваемого заказа.
	GenerateNumber(order *Order) string
}

// IdentityProvider возвращает идентификатор текущего пользователя, если он известен.
// Используется как дефолт владельца заказа.
type IdentityProvider interface {
	// CurrentUserID возвращает пустую строку для анонимного контекста.
	CurrentUserID(ctx context.Context) string
}

// ShippingCalculator считает стоимость доставки и строит Adjuster
// по конфигурации способа доставки.
type ShippingCalculator interface {
	// EstimateMinor оценивает стоимость доставки для checkout.
	EstimateMinor(configuration map[string]any, checkout *Checkout) int64
	// Adjuster возвращает стратегию построения shipping-корректировки
	// для уже посчитанной оценки. nil означает «корректировка не нужна».
	Adjuster(configuration map[string]any, estimateMinor int64) Adjuster
}

// ShippingMethod — способ доставки, выбранный на checkout.
type ShippingMethod interface {
	ID() string
	Name() string
	// Calculator возвращает калькулятор стоимости для метода.
	Calculator() ShippingCalculator
	// EstimateMinor оценивает стоимость доставки для текущего checkout.
	EstimateMinor(checkout *Checkout) int64
	// Configuration возвращает сохранённые настройки метода.
	Configuration() map[string]any
}

// ShippingMethodRegistry — реестр способов доставки.
type ShippingMethodRegistry interface {
	// ByID возвращает метод по идентификатору или ErrShippingMethodNotFound.
	ByID(ctx context.Context, id string) (ShippingMethod, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}
