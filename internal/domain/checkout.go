package domain

import "time"

// Checkout — транзиентное состояние оформления покупки: выбранный способ
// доставки и закэшированные суммы, выведенные из корзины.
type Checkout struct {
	ID   string
	Cart *Cart
	// ShippingMethodID — выбранный способ доставки; пустая строка, если не выбран.
	ShippingMethodID string
	// ShippingAmountMinor — закэшированная стоимость доставки.
	// Источник значения — сумма созданной shipping-корректировки.
	ShippingAmountMinor int64
	UpdatedAt           time.Time
}

// SetShippingAmount обновляет закэшированную стоимость доставки.
func (c *Checkout) SetShippingAmount(amountMinor int64) {
	c.ShippingAmountMinor = amountMinor
	c.UpdatedAt = time.Now().UTC()
}
