package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

type orderRepository struct {
	store *Store
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{store: store}
}

// Create сохраняет агрегат заказа. Без внешней транзакции каждая вставка
// выполняется на соединении напрямую, поэтому ожидается вызов из WithinTx.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	q := r.store.q(ctx)

	_, err := q.ExecContext(ctx, `
		INSERT INTO orders (
			id, number, user_id, status, currency, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.Number, order.UserID, string(order.Status),
		order.Currency, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderNumberConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if order.Billpayer != nil {
		if err := r.insertBillpayer(ctx, q, order.ID, order.Billpayer); err != nil {
			return err
		}
	}

	if order.ShippingAddress != nil {
		if err := r.insertAddress(ctx, q, order.ID, order.ShippingAddress); err != nil {
			return err
		}
	}

	for i := range order.Items {
		if err := r.insertItem(ctx, q, order.ID, &order.Items[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *orderRepository) AddItem(ctx context.Context, orderID string, item *domain.OrderItem) error {
	item.OrderID = orderID
	return r.insertItem(ctx, r.store.q(ctx), orderID, item)
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	return r.getByField(ctx, "id", id)
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (domain.Order, error) {
	return r.getByField(ctx, "number", number)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	q := r.store.q(ctx)

	query := `
		SELECT id, number, user_id, status, currency, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = q.QueryContext(ctx, query+" LIMIT $2", userID, limit)
	} else {
		rows, err = q.QueryContext(ctx, query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		if err := r.loadAggregate(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) getByField(ctx context.Context, field, value string) (domain.Order, error) {
	var (
		order  domain.Order
		status string
	)

	err := r.store.q(ctx).QueryRowContext(ctx, `
		SELECT id, number, user_id, status, currency, created_at, updated_at
		FROM orders
		WHERE `+field+` = $1
	`, value).Scan(
		&order.ID, &order.Number, &order.UserID, &status,
		&order.Currency, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order by %s: %w", field, err)
	}
	order.Status = domain.OrderStatus(status)

	if err := r.loadAggregate(ctx, &order); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (r *orderRepository) loadAggregate(ctx context.Context, order *domain.Order) error {
	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return err
	}
	order.Items = items

	billpayer, err := r.loadBillpayer(ctx, order.ID)
	if err != nil {
		return err
	}
	order.Billpayer = billpayer

	address, err := r.loadShippingAddress(ctx, order.ID)
	if err != nil {
		return err
	}
	order.ShippingAddress = address

	return nil
}

func (r *orderRepository) insertItem(ctx context.Context, q querier, orderID string, item *domain.OrderItem) error {
	if _, err := q.ExecContext(ctx, `
		INSERT INTO order_items (
			id, order_id, product_kind, product_id, name, qty, price_minor, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		item.ID, orderID, item.ProductKind, item.ProductID,
		item.Name, item.Qty, item.PriceMinor, item.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (r *orderRepository) insertBillpayer(ctx context.Context, q querier, orderID string, bp *domain.Billpayer) error {
	if _, err := q.ExecContext(ctx, `
		INSERT INTO billpayers (
			id, order_id, name, email, phone,
			address_id, address_type, address_name, address_country,
			address_city, address_postal_code, address_line
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		bp.ID, orderID, bp.Name, bp.Email, bp.Phone,
		bp.Address.ID, string(bp.Address.Type), bp.Address.Name, bp.Address.Country,
		bp.Address.City, bp.Address.PostalCode, bp.Address.Line,
	); err != nil {
		return fmt.Errorf("insert billpayer: %w", err)
	}
	return nil
}

func (r *orderRepository) insertAddress(ctx context.Context, q querier, orderID string, address *domain.Address) error {
	if _, err := q.ExecContext(ctx, `
		INSERT INTO order_addresses (
			id, order_id, type, name, country, city, postal_code, line
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		address.ID, orderID, string(address.Type), address.Name,
		address.Country, address.City, address.PostalCode, address.Line,
	); err != nil {
		return fmt.Errorf("insert order address: %w", err)
	}
	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, `
		SELECT id, product_kind, product_id, name, qty, price_minor, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{OrderID: orderID}
		if err := rows.Scan(
			&item.ID, &item.ProductKind, &item.ProductID,
			&item.Name, &item.Qty, &item.PriceMinor, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) loadBillpayer(ctx context.Context, orderID string) (*domain.Billpayer, error) {
	var (
		bp       domain.Billpayer
		addrType string
	)

	err := r.store.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, email, phone,
		       address_id, address_type, address_name, address_country,
		       address_city, address_postal_code, address_line
		FROM billpayers
		WHERE order_id = $1
	`, orderID).Scan(
		&bp.ID, &bp.Name, &bp.Email, &bp.Phone,
		&bp.Address.ID, &addrType, &bp.Address.Name, &bp.Address.Country,
		&bp.Address.City, &bp.Address.PostalCode, &bp.Address.Line,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load billpayer: %w", err)
	}
	bp.Address.Type = domain.AddressType(addrType)

	return &bp, nil
}

func (r *orderRepository) loadShippingAddress(ctx context.Context, orderID string) (*domain.Address, error) {
	var (
		address  domain.Address
		addrType string
	)

	err := r.store.q(ctx).QueryRowContext(ctx, `
		SELECT id, type, name, country, city, postal_code, line
		FROM order_addresses
		WHERE order_id = $1 AND type = $2
	`, orderID, string(domain.AddressTypeShipping)).Scan(
		&address.ID, &addrType, &address.Name, &address.Country,
		&address.City, &address.PostalCode, &address.Line,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load shipping address: %w", err)
	}
	address.Type = domain.AddressType(addrType)

	return &address, nil
}

func scanOrder(rows *sql.Rows) (domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := rows.Scan(
		&order.ID, &order.Number, &order.UserID, &status,
		&order.Currency, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, fmt.Errorf("scan order row: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
