// Package events реализует синхронную внутрипроцессную шину событий
// домена. Внешняя доставка (Kafka) идёт отдельным путём через
// transactional outbox.
package events

import "github.com/vladislavdragonenkov/commerce/internal/domain"

// Event — событие домена, публикуемое на внутреннюю шину.
type Event interface {
	// EventName возвращает имя, по которому подбираются подписчики.
	EventName() string
}

// Имена событий.
const (
	NameCartUpdated     = "cart.updated"
	NameCheckoutUpdated = "checkout.updated"
	NameOrderWasCreated = "order.created"
)

// CartUpdated сигнализирует об изменении состава корзины.
type CartUpdated struct {
	Cart *domain.Cart
}

func (CartUpdated) EventName() string { return NameCartUpdated }

// CheckoutUpdated сигнализирует об изменении checkout (например, выборе
// способа доставки). Checkout передаётся явно — без глобального состояния.
type CheckoutUpdated struct {
	Checkout *domain.Checkout
}

func (CheckoutUpdated) EventName() string { return NameCheckoutUpdated }

// OrderWasCreated публикуется ровно один раз после commit транзакции
// создания заказа.
type OrderWasCreated struct {
	Order domain.Order
}

func (OrderWasCreated) EventName() string { return NameOrderWasCreated }
