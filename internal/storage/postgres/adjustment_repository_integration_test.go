package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

func seedCartForIntegrationTest(t *testing.T, store *Store, cartID string) {
	t.Helper()

	repo := NewCartRepository(store)
	now := time.Now().UTC().Round(time.Microsecond)
	cart := domain.Cart{
		ID:        cartID,
		Currency:  "EUR",
		CreatedAt: now,
		UpdatedAt: now,
		Items: []domain.CartItem{
			{ID: uuid.NewString(), ProductID: "sku-1", Name: "Mug", Qty: 2, PriceMinor: 1999},
		},
	}
	if err := repo.Save(context.Background(), &cart); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}

func TestAdjustmentRepository_PostgresSaveListDelete(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewAdjustmentRepository(store)
	ctx := context.Background()

	owner := domain.OwnerRef{Kind: domain.OwnerKindCart, ID: "cart-1"}
	now := time.Now().UTC().Round(time.Microsecond)

	first := domain.Adjustment{
		Owner:       owner,
		Type:        domain.AdjustmentTypeShipping,
		Label:       "Shipping",
		AmountMinor: 495,
		CreatedAt:   now,
	}
	second := domain.Adjustment{
		Owner:       owner,
		Type:        domain.AdjustmentTypeDiscount,
		Label:       "Promo",
		AmountMinor: -500,
		CreatedAt:   now,
	}

	if err := repo.Save(ctx, &first); err != nil {
		t.Fatalf("save first adjustment: %v", err)
	}
	if err := repo.Save(ctx, &second); err != nil {
		t.Fatalf("save second adjustment: %v", err)
	}
	if first.ID == "" || second.ID == "" {
		t.Fatal("save should assign ids")
	}

	listed, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(listed))
	}
	// Порядок вставки сохраняется.
	if listed[0].ID != first.ID || listed[1].ID != second.ID {
		t.Fatalf("unexpected order: %+v", listed)
	}

	other, err := repo.ListByOwner(ctx, domain.OwnerRef{Kind: domain.OwnerKindOrder, ID: "cart-1"})
	if err != nil {
		t.Fatalf("list by other owner: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("owner kinds must not leak into each other, got %d rows", len(other))
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete adjustment: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, domain.ErrAdjustmentNotFound) {
		t.Fatalf("expected ErrAdjustmentNotFound, got %v", err)
	}

	if err := repo.DeleteByIDs(ctx, []string{second.ID, "missing-id"}); err != nil {
		t.Fatalf("batch delete should skip missing ids: %v", err)
	}

	empty, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %d rows", len(empty))
	}
}

func TestAdjustmentRepository_PostgresSaveOverwrites(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewAdjustmentRepository(store)
	ctx := context.Background()

	owner := domain.OwnerRef{Kind: domain.OwnerKindCart, ID: "cart-1"}
	adjustment := domain.Adjustment{
		Owner:       owner,
		Type:        domain.AdjustmentTypeShipping,
		Label:       "Shipping",
		AmountMinor: 495,
		CreatedAt:   time.Now().UTC().Round(time.Microsecond),
	}
	if err := repo.Save(ctx, &adjustment); err != nil {
		t.Fatalf("save adjustment: %v", err)
	}

	adjustment.AmountMinor = 795
	adjustment.Label = "Express shipping"
	if err := repo.Save(ctx, &adjustment); err != nil {
		t.Fatalf("overwrite adjustment: %v", err)
	}

	listed, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected single row after overwrite, got %d", len(listed))
	}
	if listed[0].AmountMinor != 795 || listed[0].Label != "Express shipping" {
		t.Fatalf("overwrite did not apply: %+v", listed[0])
	}
}

func TestCartRepository_PostgresSaveAndGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCartRepository(store)
	ctx := context.Background()

	seedCartForIntegrationTest(t, store, "cart-1")

	cart, err := repo.Get(ctx, "cart-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Name != "Mug" {
		t.Fatalf("unexpected cart items: %+v", cart.Items)
	}
	if got := cart.ItemsTotalMinor(); got != 3998 {
		t.Fatalf("expected items total 3998, got %d", got)
	}

	// Полная замена позиций при повторном сохранении.
	cart.Items = []domain.CartItem{
		{ID: uuid.NewString(), ProductID: "sku-2", Name: "Sticker", Qty: 1, PriceMinor: 500},
	}
	cart.UpdatedAt = time.Now().UTC().Round(time.Microsecond)
	if err := repo.Save(ctx, &cart); err != nil {
		t.Fatalf("resave cart: %v", err)
	}

	reloaded, err := repo.Get(ctx, "cart-1")
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].Name != "Sticker" {
		t.Fatalf("items must be replaced, got %+v", reloaded.Items)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}
