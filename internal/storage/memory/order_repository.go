package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository поверх общего Store.
type orderRepositoryInMemory struct {
	store *Store
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepositoryInMemory{store: store}
}

// Create сохраняет агрегат целиком; занятый номер — ErrOrderNumberConflict.
func (r *orderRepositoryInMemory) Create(ctx context.Context, order *domain.Order) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, exists := r.store.ordersByNum[order.Number]; exists {
		return domain.ErrOrderNumberConflict
	}
	r.store.orders[order.ID] = cloneOrder(*order)
	r.store.ordersByNum[order.Number] = order.ID
	return nil
}

// AddItem добавляет позицию к существующему заказу.
func (r *orderRepositoryInMemory) AddItem(ctx context.Context, orderID string, item *domain.OrderItem) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	order, ok := r.store.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	item.OrderID = orderID
	order.Items = append(order.Items, *item)
	r.store.orders[orderID] = order
	return nil
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Get(ctx context.Context, id string) (domain.Order, error) {
	unlock := r.store.rlock(ctx)
	defer unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// GetByNumber возвращает заказ по номеру или ErrOrderNotFound.
func (r *orderRepositoryInMemory) GetByNumber(ctx context.Context, number string) (domain.Order, error) {
	unlock := r.store.rlock(ctx)
	defer unlock()

	id, ok := r.store.ordersByNum[number]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(r.store.orders[id]), nil
}

// ListByUser возвращает заказы пользователя, ограничивая выборку limit (если >0).
func (r *orderRepositoryInMemory) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	unlock := r.store.rlock(ctx)
	defer unlock()

	result := make([]domain.Order, 0)
	for _, order := range r.store.orders {
		if order.UserID != userID {
			continue
		}
		result = append(result, cloneOrder(order))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
