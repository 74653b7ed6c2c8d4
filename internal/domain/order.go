package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, дальнейшая обработка ещё не началась.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusCompleted — заказ исполнен.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCanceled — заказ отменён.
	OrderStatusCanceled OrderStatus = "canceled"
)

// AddressType — назначение адреса.
type AddressType string

const (
	AddressTypeBilling  AddressType = "billing"
	AddressTypeShipping AddressType = "shipping"
	// AddressTypeDefault используется, когда назначение не указано явно.
	AddressTypeDefault AddressType = "undefined"
)

// Address — сохранённый почтовый адрес.
type Address struct {
	ID         string
	Type       AddressType
	Name       string
	Country    string
	City       string
	PostalCode string
	Line       string
}

// Billpayer — плательщик заказа: контактные данные плюс платёжный адрес.
type Billpayer struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address Address
}

// Buyable — покупаемый товар. Фабрика заказов снимает с него снапшот
// (тип, идентификатор, цена, название) в момент создания позиции;
// живая ссылка на товар в заказе не хранится.
type Buyable interface {
	// MorphTypeName возвращает тег типа товара для полиморфной ссылки.
	MorphTypeName() string
	GetID() string
	GetName() string
	// GetPriceMinor возвращает актуальную цену в минимальных единицах.
	GetPriceMinor() int64
}

// OrderItem — одна позиция заказа. Цена и название — снапшот на момент
// создания: последующие изменения товара исторический заказ не меняют.
type OrderItem struct {
	ID      string
	OrderID string
	// ProductKind и ProductID — полиморфная ссылка на товар-источник (если был).
	ProductKind string
	ProductID   string
	Name        string
	PriceMinor  int64
	Qty         int32
	CreatedAt   time.Time
}

// LineTotalMinor возвращает сумму позиции: qty * price.
func (i OrderItem) LineTotalMinor() int64 {
	return int64(i.Qty) * i.PriceMinor
}

// Order агрегирует шапку заказа, плательщика, адрес доставки и позиции.
type Order struct {
	ID string
	// Number — уникальный номер заказа; назначается один раз.
	Number string
	// UserID — владелец заказа; пустая строка для гостевых заказов.
	UserID          string
	Status          OrderStatus
	Currency        string
	Billpayer       *Billpayer
	ShippingAddress *Address
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AdjustmentOwner реализует Adjustable для заказа.
func (o *Order) AdjustmentOwner() OwnerRef {
	return OwnerRef{Kind: OwnerKindOrder, ID: o.ID}
}

// ItemsTotalMinor возвращает сумму всех позиций заказа.
func (o *Order) ItemsTotalMinor() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.LineTotalMinor()
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.Number == "" {
		errs = append(errs, ErrOrderNumberRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrOrderItemsRequired)
	}
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	return errs
}

var _ Adjustable = (*Order)(nil)
