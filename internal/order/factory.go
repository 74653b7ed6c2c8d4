// Package order содержит фабрику заказов: транзакционную сборку агрегата
// из входных данных checkout с типизированными хуками расширения.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
	"github.com/vladislavdragonenkov/commerce/internal/events"
	"github.com/vladislavdragonenkov/commerce/internal/metrics"
)

// aggregateTypeOrder используется в outbox-сообщениях о заказах.
const aggregateTypeOrder = "order"

// BillpayerData — входные данные плательщика.
type BillpayerData struct {
	Name  string
	Email string
	Phone string
	// Address принимает *domain.Address, domain.Address или map[string]string.
	Address any
}

// OrderData — входные данные шапки заказа. Пустые Number и UserID
// заполняются генератором номеров и IdentityProvider соответственно.
type OrderData struct {
	Number   string
	UserID   string
	Currency string
	Status   domain.OrderStatus
	// Billpayer и ShippingAddress опциональны: гостевой заказ без доставки
	// валиден.
	Billpayer *BillpayerData
	// ShippingAddress принимает *domain.Address, domain.Address или map[string]string.
	ShippingAddress any
}

// ItemData — входные данные позиции заказа. Если задан Product, фабрика
// снимает с него снапшот типа, идентификатора, названия и цены; явно
// заданные Name и PriceMinor имеют приоритет над снапшотом.
type ItemData struct {
	Product    domain.Buyable
	ProductID  string
	Name       string
	PriceMinor int64
	// Qty по умолчанию 1.
	Qty int32
}

// Hook вызывается внутри транзакции после создания заказа и его позиций.
// Ошибка хука откатывает весь заказ.
type Hook func(ctx context.Context, order *domain.Order, data OrderData, items []ItemData) error

// ItemHook вызывается внутри транзакции один раз на каждую созданную позицию.
type ItemHook func(ctx context.Context, item *domain.OrderItem, order *domain.Order) error

// CreateOption настраивает один вызов CreateFromData.
type CreateOption func(*createConfig)

type createConfig struct {
	hooks     []Hook
	itemHooks []ItemHook
}

// WithHook регистрирует хук уровня заказа на время одного вызова.
func WithHook(hook Hook) CreateOption {
	return func(c *createConfig) {
		c.hooks = append(c.hooks, hook)
	}
}

// WithItemHook регистрирует хук уровня позиции на время одного вызова.
func WithItemHook(hook ItemHook) CreateOption {
	return func(c *createConfig) {
		c.itemHooks = append(c.itemHooks, hook)
	}
}

// Factory собирает заказ из входных данных в одной транзакции:
// шапка, плательщик, адреса, позиции, хуки и outbox-событие фиксируются
// атомарно, событие на шину уходит только после commit.
type Factory struct {
	orders   domain.OrderRepository
	outbox   domain.OutboxRepository
	tx       domain.Transactor
	numbers  domain.OrderNumberGenerator
	identity domain.IdentityProvider
	bus      *events.Bus
	metrics  *metrics.CheckoutMetrics
	logger   *log.Entry
}

// FactoryOption настраивает фабрику заказов.
type FactoryOption func(*Factory)

// WithNumberGenerator заменяет генератор номеров по умолчанию.
func WithNumberGenerator(generator domain.OrderNumberGenerator) FactoryOption {
	return func(f *Factory) {
		f.numbers = generator
	}
}

// WithIdentityProvider задаёт источник владельца заказа по умолчанию.
func WithIdentityProvider(identity domain.IdentityProvider) FactoryOption {
	return func(f *Factory) {
		f.identity = identity
	}
}

// WithBus подключает шину для публикации OrderWasCreated после commit.
func WithBus(bus *events.Bus) FactoryOption {
	return func(f *Factory) {
		f.bus = bus
	}
}

// WithMetrics подключает метрики создания заказов.
func WithMetrics(m *metrics.CheckoutMetrics) FactoryOption {
	return func(f *Factory) {
		f.metrics = m
	}
}

// NewFactory создаёт фабрику заказов.
func NewFactory(
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	tx domain.Transactor,
	logger *log.Entry,
	opts ...FactoryOption,
) *Factory {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	f := &Factory{
		orders:  orders,
		outbox:  outbox,
		tx:      tx,
		numbers: NewTimeNumberGenerator(),
		logger:  logger.WithField("component", "order_factory"),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateFromData создаёт заказ из данных checkout. Вся запись идёт в одной
// транзакции; ошибка любого шага, включая хуки, откатывает заказ целиком.
func (f *Factory) CreateFromData(
	ctx context.Context,
	data OrderData,
	items []ItemData,
	opts ...CreateOption,
) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, domain.ErrOrderItemsRequired
	}

	cfg := &createConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if f.metrics != nil {
		f.metrics.RecordCreateStarted()
		defer f.metrics.RecordCreateFinished()
	}
	started := time.Now()

	order, err := f.buildHeader(ctx, data)
	if err != nil {
		f.recordFailed()
		return domain.Order{}, err
	}

	err = f.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := f.createAggregate(ctx, &order, items); err != nil {
			return err
		}

		for _, hook := range cfg.hooks {
			if err := hook(ctx, &order, data, items); err != nil {
				return err
			}
		}

		for i := range order.Items {
			for _, hook := range cfg.itemHooks {
				if err := hook(ctx, &order.Items[i], &order); err != nil {
					return err
				}
			}
		}

		// Хуки могли изменить позиции: проверяем агрегат перед фиксацией.
		if errs := order.ValidateInvariants(); len(errs) > 0 {
			return fmt.Errorf("order invariants violated: %w", errors.Join(errs...))
		}

		return f.enqueueCreated(ctx, &order)
	})
	if err != nil {
		f.recordFailed()
		return domain.Order{}, err
	}

	if f.metrics != nil {
		f.metrics.RecordOrderCreated()
		f.metrics.RecordOrderCreateDuration(time.Since(started))
	}

	if f.bus != nil {
		f.bus.Publish(ctx, events.OrderWasCreated{Order: order})
	}

	f.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.Number,
		"items":        len(order.Items),
	}).Info("order created")

	return order, nil
}

// buildHeader собирает шапку заказа, плательщика и адрес доставки.
// Хранилище на этом шаге не трогается.
func (f *Factory) buildHeader(ctx context.Context, data OrderData) (domain.Order, error) {
	now := time.Now().UTC()

	order := domain.Order{
		ID:        uuid.NewString(),
		Number:    data.Number,
		UserID:    data.UserID,
		Status:    data.Status,
		Currency:  data.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if order.Number == "" {
		order.Number = f.numbers.GenerateNumber(&order)
	}
	if order.UserID == "" && f.identity != nil {
		order.UserID = f.identity.CurrentUserID(ctx)
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	if data.Billpayer != nil {
		billpayer, err := mapBillpayer(data.Billpayer)
		if err != nil {
			return domain.Order{}, err
		}
		order.Billpayer = billpayer
	}

	if data.ShippingAddress != nil {
		address, err := mapAddress(data.ShippingAddress, domain.AddressTypeShipping)
		if err != nil {
			return domain.Order{}, err
		}
		order.ShippingAddress = address
	}

	return order, nil
}

// createAggregate сохраняет заказ и его позиции. Если ни одна позиция
// не несёт Buyable, агрегат пишется целиком одним вызовом; иначе шапка
// создаётся отдельно, а позиции добавляются по одной со снапшотом товара.
func (f *Factory) createAggregate(ctx context.Context, order *domain.Order, items []ItemData) error {
	if !anyBuyable(items) {
		order.Items = make([]domain.OrderItem, 0, len(items))
		for _, item := range items {
			order.Items = append(order.Items, buildItem(order, item))
		}
		if err := f.orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order %q: %w", order.Number, err)
		}
		return nil
	}

	if err := f.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("create order %q: %w", order.Number, err)
	}

	order.Items = make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		created := buildItem(order, item)
		if err := f.orders.AddItem(ctx, order.ID, &created); err != nil {
			return fmt.Errorf("add item to order %q: %w", order.Number, err)
		}
		order.Items = append(order.Items, created)
	}

	return nil
}

// enqueueCreated пишет событие order.created в outbox той же транзакцией.
func (f *Factory) enqueueCreated(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(orderCreatedPayload{
		OrderID:     order.ID,
		Number:      order.Number,
		UserID:      order.UserID,
		Currency:    order.Currency,
		TotalMinor:  order.ItemsTotalMinor(),
		ItemCount:   len(order.Items),
		CreatedAtTS: order.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal order.created payload: %w", err)
	}

	if _, err := f.outbox.Enqueue(ctx, domain.OutboxMessage{
		AggregateType: aggregateTypeOrder,
		AggregateID:   order.ID,
		EventType:     events.NameOrderWasCreated,
		Payload:       payload,
	}); err != nil {
		return fmt.Errorf("enqueue order.created: %w", err)
	}

	if f.metrics != nil {
		f.metrics.RecordOutboxEvent()
	}
	return nil
}

func (f *Factory) recordFailed() {
	if f.metrics != nil {
		f.metrics.RecordOrderFailed()
	}
}

type orderCreatedPayload struct {
	OrderID     string `json:"order_id"`
	Number      string `json:"number"`
	UserID      string `json:"user_id,omitempty"`
	Currency    string `json:"currency,omitempty"`
	TotalMinor  int64  `json:"total_minor"`
	ItemCount   int    `json:"item_count"`
	CreatedAtTS int64  `json:"created_at_ts"`
}

func anyBuyable(items []ItemData) bool {
	for _, item := range items {
		if item.Product != nil {
			return true
		}
	}
	return false
}

// buildItem превращает входные данные в позицию заказа. Снапшот товара
// берётся из Buyable, если он есть; явные поля входа имеют приоритет.
func buildItem(order *domain.Order, data ItemData) domain.OrderItem {
	item := domain.OrderItem{
		ID:         uuid.NewString(),
		OrderID:    order.ID,
		ProductID:  data.ProductID,
		Name:       data.Name,
		PriceMinor: data.PriceMinor,
		Qty:        data.Qty,
		CreatedAt:  time.Now().UTC(),
	}

	if data.Product != nil {
		item.ProductKind = data.Product.MorphTypeName()
		if item.ProductID == "" {
			item.ProductID = data.Product.GetID()
		}
		if item.Name == "" {
			item.Name = data.Product.GetName()
		}
		if item.PriceMinor == 0 {
			item.PriceMinor = data.Product.GetPriceMinor()
		}
	}

	if item.Qty == 0 {
		item.Qty = 1
	}

	return item
}

// mapBillpayer собирает плательщика; его адрес получает назначение billing.
func mapBillpayer(data *BillpayerData) (*domain.Billpayer, error) {
	billpayer := &domain.Billpayer{
		ID:    uuid.NewString(),
		Name:  data.Name,
		Email: data.Email,
		Phone: data.Phone,
	}

	if data.Address != nil {
		address, err := mapAddress(data.Address, domain.AddressTypeBilling)
		if err != nil {
			return nil, err
		}
		billpayer.Address = *address
	}

	return billpayer, nil
}

// mapAddress нормализует адрес из поддерживаемых представлений входа.
// Пустое имя заменяется на "-", незаданное назначение — на fallback.
func mapAddress(input any, fallback domain.AddressType) (*domain.Address, error) {
	var address domain.Address

	switch v := input.(type) {
	case *domain.Address:
		if v == nil {
			return nil, domain.NewCreateOrderError("address must not be a nil *domain.Address", nil)
		}
		address = *v
	case domain.Address:
		address = v
	case map[string]string:
		address = domain.Address{
			Type:       domain.AddressType(v["type"]),
			Name:       v["name"],
			Country:    v["country"],
			City:       v["city"],
			PostalCode: v["postal_code"],
			Line:       v["line"],
		}
	default:
		return nil, domain.NewCreateOrderError(
			fmt.Sprintf("unsupported address input type %T", input), nil,
		)
	}

	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	if address.Name == "" {
		address.Name = "-"
	}
	if address.Type == "" {
		address.Type = fallback
	}

	return &address, nil
}
