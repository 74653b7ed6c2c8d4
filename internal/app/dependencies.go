package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/commerce/internal/checkout"
	"github.com/vladislavdragonenkov/commerce/internal/domain"
	"github.com/vladislavdragonenkov/commerce/internal/events"
	"github.com/vladislavdragonenkov/commerce/internal/order"
	"github.com/vladislavdragonenkov/commerce/internal/shipping"
	"github.com/vladislavdragonenkov/commerce/internal/storage/memory"
)

// Dependencies содержит связанный in-memory граф зависимостей домена:
// репозитории, шину событий, реестр доставки, checkout-хранилище и фабрику
// заказов с уже подключённым пересчётом shipping-корректировок.
// Используется в тестах и при встраивании модуля без внешнего хранилища.
type Dependencies struct {
	Carts        domain.CartRepository
	Orders       domain.OrderRepository
	Adjustments  domain.AdjustmentRepository
	Outbox       domain.OutboxRepository
	Tx           domain.Transactor
	Bus          *events.Bus
	Checkouts    *checkout.Store
	Methods      *shipping.Registry
	OrderFactory *order.Factory
	ShippingFees *checkout.ShippingFees
	Logger       *log.Entry
}

// NewDependencies создаёт и связывает все зависимости поверх in-memory
// хранилища.
func NewDependencies(logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	store := memory.NewStore()
	carts := memory.NewCartRepository(store)
	orders := memory.NewOrderRepository(store)
	adjustments := memory.NewAdjustmentRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)

	bus := events.NewBus(logger)
	checkouts := checkout.NewStore()
	methods := shipping.NewRegistry()

	fees := checkout.NewShippingFees(adjustments, methods, checkouts, store, logger)
	fees.Register(bus)

	factory := order.NewFactory(orders, outboxRepo, store, logger, order.WithBus(bus))

	return &Dependencies{
		Carts:        carts,
		Orders:       orders,
		Adjustments:  adjustments,
		Outbox:       outboxRepo,
		Tx:           store,
		Bus:          bus,
		Checkouts:    checkouts,
		Methods:      methods,
		OrderFactory: factory,
		ShippingFees: fees,
		Logger:       logger,
	}
}
