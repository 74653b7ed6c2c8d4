package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderItemsRequired — нельзя создать заказ без позиций.
	ErrOrderItemsRequired = errors.New("can not create an order without items")
	// ErrOrderNumberRequired — у заказа должен быть номер.
	ErrOrderNumberRequired = errors.New("order number is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNumberConflict — номер заказа уже занят.
	ErrOrderNumberConflict = errors.New("order number already exists")
	// ErrCartNotFound возвращается, если корзина не найдена.
	ErrCartNotFound = errors.New("cart not found")
	// ErrAdjustmentNotFound возвращается, если корректировка отсутствует в хранилище.
	ErrAdjustmentNotFound = errors.New("adjustment not found")
	// ErrInvalidAdjustment — значение не удовлетворяет контракту Adjustment.
	ErrInvalidAdjustment = errors.New("only valid adjustments can be stored in the collection")
	// ErrShippingMethodNotFound — выбранный способ доставки не зарегистрирован.
	ErrShippingMethodNotFound = errors.New("shipping method not found")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// CreateOrderError — ошибка валидации входных данных фабрики заказов.
type CreateOrderError struct {
	Reason string
	Err    error
}

func (e *CreateOrderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("create order: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("create order: %s", e.Reason)
}

func (e *CreateOrderError) Unwrap() error {
	return e.Err
}

// NewCreateOrderError создаёт типизированную ошибку создания заказа.
func NewCreateOrderError(reason string, err error) *CreateOrderError {
	return &CreateOrderError{Reason: reason, Err: err}
}

// IsNotFound проверяет, относится ли ошибка к классу «не найдено».
// Такие условия в слушателях трактуются как no-op, а не как сбой.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCartNotFound) ||
		errors.Is(err, ErrAdjustmentNotFound) ||
		errors.Is(err, ErrShippingMethodNotFound)
}
