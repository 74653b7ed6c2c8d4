// Package memory содержит in-memory реализацию хранилища для локальной
// разработки и тестов. Все репозитории делят один Store, поэтому
// транзакция покрывает их совместно.
package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// txKey помечает контекст, выполняющийся внутри открытой транзакции.
type txKey struct{}

// Store хранит всё состояние in-memory реализации.
type Store struct {
	mu sync.RWMutex

	orders      map[string]domain.Order
	ordersByNum map[string]string

	adjustments map[string]domain.Adjustment
	// adjustmentSeq задаёт порядок вставки: представление коллекции упорядочено.
	adjustmentSeq map[string]int64
	nextSeq       int64

	carts  map[string]domain.Cart
	outbox map[string]*outboxRecord
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		orders:        make(map[string]domain.Order),
		ordersByNum:   make(map[string]string),
		adjustments:   make(map[string]domain.Adjustment),
		adjustmentSeq: make(map[string]int64),
		carts:         make(map[string]domain.Cart),
		outbox:        make(map[string]*outboxRecord),
	}
}

// WithinTx выполняет fn атомарно: на время выполнения берётся эксклюзивная
// блокировка, при ошибке состояние откатывается к снапшоту. Вложенный вызов
// присоединяется к уже открытой транзакции.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// snapshot копирует всё состояние хранилища.
func (s *Store) snapshot() *Store {
	snap := NewStore()
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	for k, v := range s.ordersByNum {
		snap.ordersByNum[k] = v
	}
	for k, v := range s.adjustments {
		snap.adjustments[k] = v
	}
	for k, v := range s.adjustmentSeq {
		snap.adjustmentSeq[k] = v
	}
	snap.nextSeq = s.nextSeq
	for k, v := range s.carts {
		snap.carts[k] = cloneCart(v)
	}
	for k, v := range s.outbox {
		record := *v
		snap.outbox[k] = &record
	}
	return snap
}

// restore возвращает состояние к снапшоту.
func (s *Store) restore(snap *Store) {
	s.orders = snap.orders
	s.ordersByNum = snap.ordersByNum
	s.adjustments = snap.adjustments
	s.adjustmentSeq = snap.adjustmentSeq
	s.nextSeq = snap.nextSeq
	s.carts = snap.carts
	s.outbox = snap.outbox
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock берёт блокировку на запись, если она ещё не удерживается транзакцией.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// rlock берёт блокировку на чтение, если она ещё не удерживается транзакцией.
func (s *Store) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// cloneOrder копирует агрегат, чтобы избежать непредсказуемых мутаций извне.
func cloneOrder(order domain.Order) domain.Order {
	clone := order
	if order.Billpayer != nil {
		billpayer := *order.Billpayer
		clone.Billpayer = &billpayer
	}
	if order.ShippingAddress != nil {
		address := *order.ShippingAddress
		clone.ShippingAddress = &address
	}
	clone.Items = make([]domain.OrderItem, len(order.Items))
	copy(clone.Items, order.Items)
	return clone
}

// cloneCart копирует корзину вместе с позициями.
func cloneCart(cart domain.Cart) domain.Cart {
	clone := cart
	clone.Items = make([]domain.CartItem, len(cart.Items))
	copy(clone.Items, cart.Items)
	return clone
}

var _ domain.Transactor = (*Store)(nil)
