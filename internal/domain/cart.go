package domain

import "time"

// CartItem — позиция корзины.
type CartItem struct {
	ID         string
	ProductID  string
	Name       string
	Qty        int32
	PriceMinor int64
}

// LineTotalMinor возвращает сумму позиции: qty * price.
func (i CartItem) LineTotalMinor() int64 {
	return int64(i.Qty) * i.PriceMinor
}

// Cart — корзина покупателя; владеет собственным набором корректировок.
type Cart struct {
	ID        string
	UserID    string
	Currency  string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdjustmentOwner реализует Adjustable для корзины.
func (c *Cart) AdjustmentOwner() OwnerRef {
	return OwnerRef{Kind: OwnerKindCart, ID: c.ID}
}

// ItemsTotalMinor возвращает сумму позиций без учёта корректировок.
func (c *Cart) ItemsTotalMinor() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineTotalMinor()
	}
	return total
}

// IsEmpty сообщает, что в корзине нет позиций.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

var _ Adjustable = (*Cart)(nil)
