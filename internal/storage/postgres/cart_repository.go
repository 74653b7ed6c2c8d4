package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

type cartRepository struct {
	store *Store
}

// NewCartRepository создаёт PostgreSQL-реализацию CartRepository.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepository{store: store}
}

func (r *cartRepository) Get(ctx context.Context, id string) (domain.Cart, error) {
	q := r.store.q(ctx)

	var cart domain.Cart
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, currency, created_at, updated_at
		FROM carts
		WHERE id = $1
	`, id).Scan(&cart.ID, &cart.UserID, &cart.Currency, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("select cart: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, name, qty, price_minor
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Qty, &item.PriceMinor); err != nil {
			return domain.Cart{}, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("iterate cart items: %w", err)
	}
	cart.Items = items

	return cart, nil
}

// Save перезаписывает корзину целиком: upsert шапки и полная замена позиций.
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.store.WithinTx(ctx, func(ctx context.Context) error {
		q := r.store.q(ctx)

		if _, err := q.ExecContext(ctx, `
			INSERT INTO carts (id, user_id, currency, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (id) DO UPDATE SET
				user_id = EXCLUDED.user_id,
				currency = EXCLUDED.currency,
				updated_at = EXCLUDED.updated_at
		`, cart.ID, cart.UserID, cart.Currency, cart.CreatedAt, cart.UpdatedAt); err != nil {
			return fmt.Errorf("upsert cart: %w", err)
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
			return fmt.Errorf("clear cart items: %w", err)
		}

		for i := range cart.Items {
			item := &cart.Items[i]
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			if _, err := q.ExecContext(ctx, `
				INSERT INTO cart_items (id, cart_id, product_id, name, qty, price_minor)
				VALUES ($1,$2,$3,$4,$5,$6)
			`, item.ID, cart.ID, item.ProductID, item.Name, item.Qty, item.PriceMinor); err != nil {
				return fmt.Errorf("insert cart item: %w", err)
			}
		}

		return nil
	})
}

var _ domain.CartRepository = (*cartRepository)(nil)
