package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

func sampleOrder(number, userID string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:       uuid.NewString(),
		Number:   number,
		UserID:   userID,
		Status:   domain.OrderStatusPending,
		Currency: "EUR",
		Billpayer: &domain.Billpayer{
			ID:    uuid.NewString(),
			Name:  "Test Payer",
			Email: "payer@example.com",
			Address: domain.Address{
				ID:      uuid.NewString(),
				Type:    domain.AddressTypeBilling,
				Name:    "Test Payer",
				Country: "NL",
				City:    "Amsterdam",
				Line:    "Keizersgracht 1",
			},
		},
		ShippingAddress: &domain.Address{
			ID:      uuid.NewString(),
			Type:    domain.AddressTypeShipping,
			Name:    "Test Payer",
			Country: "NL",
			City:    "Amsterdam",
			Line:    "Keizersgracht 1",
		},
		Items: []domain.OrderItem{
			{
				ID:         uuid.NewString(),
				Name:       "Ceramic Mug",
				ProductID:  "sku-1",
				Qty:        2,
				PriceMinor: 1999,
				CreatedAt:  createdAt,
			},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOrderRepository_PostgresCreateGetAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	now := time.Now().UTC().Round(time.Microsecond)
	order1 := sampleOrder("PO-1", "user-1", now.Add(-2*time.Minute))
	order2 := sampleOrder("PO-2", "user-1", now.Add(-time.Minute))

	if err := store.WithinTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &order1)
	}); err != nil {
		t.Fatalf("create order1: %v", err)
	}
	if err := store.WithinTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &order2)
	}); err != nil {
		t.Fatalf("create order2: %v", err)
	}

	got, err := repo.Get(ctx, order1.ID)
	if err != nil {
		t.Fatalf("get order1: %v", err)
	}
	if got.Number != order1.Number || got.UserID != order1.UserID || got.Status != order1.Status {
		t.Fatalf("unexpected order payload: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "Ceramic Mug" {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if got.Billpayer == nil || got.Billpayer.Address.Type != domain.AddressTypeBilling {
		t.Fatalf("billpayer not round-tripped: %+v", got.Billpayer)
	}
	if got.ShippingAddress == nil || got.ShippingAddress.City != "Amsterdam" {
		t.Fatalf("shipping address not round-tripped: %+v", got.ShippingAddress)
	}

	byNumber, err := repo.GetByNumber(ctx, "PO-2")
	if err != nil {
		t.Fatalf("get by number: %v", err)
	}
	if byNumber.ID != order2.ID {
		t.Fatalf("unexpected order by number: %+v", byNumber)
	}

	listed, err := repo.ListByUser(ctx, "user-1", 1)
	if err != nil {
		t.Fatalf("list by user with limit: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != order2.ID {
		t.Fatalf("unexpected list result with limit: %+v", listed)
	}

	all, err := repo.ListByUser(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("list by user without limit: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
}

func TestOrderRepository_PostgresNumberConflict(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	now := time.Now().UTC().Round(time.Microsecond)
	first := sampleOrder("PO-DUP", "user-1", now)
	second := sampleOrder("PO-DUP", "user-2", now)

	if err := store.WithinTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &first)
	}); err != nil {
		t.Fatalf("create first order: %v", err)
	}

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &second)
	})
	if !errors.Is(err, domain.ErrOrderNumberConflict) {
		t.Fatalf("expected ErrOrderNumberConflict, got %v", err)
	}
}

func TestOrderRepository_PostgresRollback(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	order := sampleOrder("PO-RB", "user-1", time.Now().UTC().Round(time.Microsecond))
	boom := errors.New("forced rollback")

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, &order); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected forced rollback error, got %v", err)
	}

	if _, err := repo.Get(ctx, order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("order must be rolled back, got %v", err)
	}
}

func TestOrderRepository_PostgresGetMissing(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	if _, err := repo.Get(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
