package domain

import "time"

// AdjustmentType — тип денежной корректировки. Набор открытый:
// внешние модули могут вводить собственные теги.
type AdjustmentType string

const (
	// AdjustmentTypeDiscount — скидка (обычно отрицательная сумма).
	AdjustmentTypeDiscount AdjustmentType = "discount"
	// AdjustmentTypeTax — налог.
	AdjustmentTypeTax AdjustmentType = "tax"
	// AdjustmentTypeShipping — стоимость доставки.
	AdjustmentTypeShipping AdjustmentType = "shipping"
	// AdjustmentTypeFee — прочие сборы.
	AdjustmentTypeFee AdjustmentType = "fee"
)

// Equals сравнивает теги по значению, а не по идентичности объектов.
func (t AdjustmentType) Equals(other AdjustmentType) bool {
	return t == other
}

// OwnerKind — тег владельца корректировки в полиморфной ссылке.
type OwnerKind string

const (
	OwnerKindCart      OwnerKind = "cart"
	OwnerKindOrder     OwnerKind = "order"
	OwnerKindOrderItem OwnerKind = "order_item"
)

// OwnerRef — типизированная ссылка «вид владельца + идентификатор».
// Заменяет открытую динамическую ссылку: корректировка принадлежит
// ровно одному владельцу в каждый момент времени.
type OwnerRef struct {
	Kind OwnerKind
	ID   string
}

// IsZero сообщает, что ссылка не заполнена.
func (r OwnerRef) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

// Adjustable — всё, что может владеть набором корректировок
// (корзина, заказ, позиция заказа).
type Adjustable interface {
	// AdjustmentOwner возвращает ссылку, под которой хранятся корректировки сущности.
	AdjustmentOwner() OwnerRef
}

// Adjustment — одна денежная корректировка (скидка, налог, доставка, сбор),
// привязанная к одному Adjustable.
type Adjustment struct {
	ID string
	// Owner — текущий владелец; переназначение заменяет ссылку целиком.
	Owner OwnerRef
	Type  AdjustmentType
	Label string
	// AmountMinor — сумма в минимальных денежных единицах; скидки отрицательные.
	AmountMinor int64
	CreatedAt   time.Time
}

// Validate проверяет, что корректировка пригодна для сохранения.
func (a Adjustment) Validate() error {
	if a.Type == "" {
		return ErrInvalidAdjustment
	}
	return nil
}

// Adjuster — стратегия построения корректировки для заданного владельца.
type Adjuster interface {
	// CreateAdjustment создаёт (но не сохраняет) корректировку для owner.
	CreateAdjustment(owner Adjustable) Adjustment
}
