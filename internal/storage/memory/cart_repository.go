package memory

import (
	"context"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// cartRepositoryInMemory — in-memory реализация CartRepository поверх общего Store.
type cartRepositoryInMemory struct {
	store *Store
}

// NewCartRepository возвращает in-memory репозиторий корзин.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepositoryInMemory{store: store}
}

// Get возвращает корзину или ErrCartNotFound.
func (r *cartRepositoryInMemory) Get(ctx context.Context, id string) (domain.Cart, error) {
	unlock := r.store.rlock(ctx)
	defer unlock()

	cart, ok := r.store.carts[id]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

// Save создаёт или перезаписывает корзину.
func (r *cartRepositoryInMemory) Save(ctx context.Context, cart *domain.Cart) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.carts[cart.ID] = cloneCart(*cart)
	return nil
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
