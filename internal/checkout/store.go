// Package checkout содержит транзиентное состояние оформления покупки
// и слушателя пересчёта стоимости доставки.
package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// Store — привязка корзины к checkout на время оформления. Заменяет
// глобальный session-like контекст явной зависимостью: слушатели получают
// Store и разрешают checkout по корзине сами.
type Store struct {
	mu     sync.RWMutex
	byCart map[string]*domain.Checkout
}

// NewStore создаёт пустое хранилище checkout-контекстов.
func NewStore() *Store {
	return &Store{byCart: make(map[string]*domain.Checkout)}
}

// ForCart возвращает checkout, привязанный к корзине, создавая его при
// первом обращении. Ссылка на корзину обновляется на актуальную.
func (s *Store) ForCart(cart *domain.Cart) *domain.Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkout, ok := s.byCart[cart.ID]
	if !ok {
		checkout = &domain.Checkout{
			ID:        uuid.NewString(),
			UpdatedAt: time.Now().UTC(),
		}
		s.byCart[cart.ID] = checkout
	}
	checkout.Cart = cart
	return checkout
}

// Get возвращает checkout корзины без создания нового.
func (s *Store) Get(cartID string) (*domain.Checkout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checkout, ok := s.byCart[cartID]
	return checkout, ok
}

// Release снимает привязку (например, после создания заказа).
func (s *Store) Release(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byCart, cartID)
}
