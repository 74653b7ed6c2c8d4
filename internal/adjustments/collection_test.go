package adjustments_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/commerce/internal/adjustments"
	"github.com/vladislavdragonenkov/commerce/internal/domain"
	"github.com/vladislavdragonenkov/commerce/internal/storage/memory"
)

// feeAdjuster — простая стратегия для тестов.
type feeAdjuster struct {
	label  string
	amount int64
}

func (a feeAdjuster) CreateAdjustment(_ domain.Adjustable) domain.Adjustment {
	return domain.Adjustment{
		Type:        domain.AdjustmentTypeFee,
		Label:       a.label,
		AmountMinor: a.amount,
	}
}

func newCollection(t *testing.T) (*adjustments.Collection, domain.AdjustmentRepository) {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewAdjustmentRepository(store)
	cart := &domain.Cart{ID: "cart-1", Currency: "USD"}
	return adjustments.New(cart, repo), repo
}

func add(t *testing.T, c *adjustments.Collection, typ domain.AdjustmentType, amount int64) domain.Adjustment {
	t.Helper()
	adj := domain.Adjustment{Type: typ, Label: string(typ), AmountMinor: amount}
	if err := c.Add(context.Background(), &adj); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	return adj
}

func TestCollection_AddSetsOwner(t *testing.T) {
	col, _ := newCollection(t)
	adj := add(t, col, domain.AdjustmentTypeTax, 100)

	want := domain.OwnerRef{Kind: domain.OwnerKindCart, ID: "cart-1"}
	if adj.Owner != want {
		t.Fatalf("expected owner %+v, got %+v", want, adj.Owner)
	}
	if adj.ID == "" {
		t.Fatal("expected generated adjustment id")
	}
}

func TestCollection_AddRejectsInvalid(t *testing.T) {
	col, _ := newCollection(t)
	adj := domain.Adjustment{AmountMinor: 100}
	if err := col.Add(context.Background(), &adj); !errors.Is(err, domain.ErrInvalidAdjustment) {
		t.Fatalf("expected ErrInvalidAdjustment, got %v", err)
	}
}

func TestCollection_Create(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	adj, err := col.Create(ctx, feeAdjuster{label: "handling", amount: 250})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if adj.AmountMinor != 250 {
		t.Fatalf("expected amount 250, got %d", adj.AmountMinor)
	}

	count, _ := col.Count(ctx)
	if count != 1 {
		t.Fatalf("expected 1 element after create, got %d", count)
	}
}

// Идемпотентность представления: два чтения без мутаций между ними
// возвращают одинаковые последовательности.
func TestCollection_ByTypeIdempotentView(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	add(t, col, domain.AdjustmentTypeShipping, 490)
	add(t, col, domain.AdjustmentTypeTax, 100)
	add(t, col, domain.AdjustmentTypeShipping, 290)

	view := col.ByType(domain.AdjustmentTypeShipping)
	first, err := view.Items(ctx)
	if err != nil {
		t.Fatalf("items failed: %v", err)
	}
	second, err := view.Items(ctx)
	if err != nil {
		t.Fatalf("items failed: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 shipping adjustments, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("views differ at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestCollection_FilteredViewReflectsStore(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	view := col.ByType(domain.AdjustmentTypeShipping)
	empty, _ := view.IsEmpty(ctx)
	if !empty {
		t.Fatal("expected empty filtered view")
	}

	// Запись через нефильтрованную коллекцию сразу видна в фильтре:
	// фильтр — проекция чтения, а не снапшот.
	add(t, col, domain.AdjustmentTypeShipping, 490)
	notEmpty, _ := view.IsNotEmpty(ctx)
	if !notEmpty {
		t.Fatal("filtered view must reflect the same persisted set")
	}
}

func TestCollection_Total(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	total, err := col.Total(ctx)
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if total != 0.0 {
		t.Fatalf("expected 0.0 for empty view, got %f", total)
	}

	add(t, col, domain.AdjustmentTypeTax, 100)
	add(t, col, domain.AdjustmentTypeDiscount, -30)
	add(t, col, domain.AdjustmentTypeShipping, 490)

	total, _ = col.Total(ctx)
	if total != 560.0 {
		t.Fatalf("expected total 560.0, got %f", total)
	}

	shippingTotal, _ := col.ByType(domain.AdjustmentTypeShipping).Total(ctx)
	if shippingTotal != 490.0 {
		t.Fatalf("expected filtered total 490.0, got %f", shippingTotal)
	}
}

// Clear на отфильтрованном представлении не трогает элементы других типов.
func TestCollection_ClearFilteredLeavesOthers(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	add(t, col, domain.AdjustmentTypeShipping, 490)
	add(t, col, domain.AdjustmentTypeTax, 100)
	add(t, col, domain.AdjustmentTypeShipping, 290)

	if err := col.ByType(domain.AdjustmentTypeShipping).Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	count, _ := col.Count(ctx)
	if count != 1 {
		t.Fatalf("expected 1 remaining adjustment, got %d", count)
	}
	remaining, _ := col.First(ctx)
	if remaining == nil || remaining.Type != domain.AdjustmentTypeTax {
		t.Fatalf("expected tax adjustment to survive, got %+v", remaining)
	}
	total, _ := col.TotalMinor(ctx)
	if total != 100 {
		t.Fatalf("expected remaining total 100, got %d", total)
	}
}

func TestCollection_RemoveByKey(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	kept := add(t, col, domain.AdjustmentTypeTax, 100)
	removed := add(t, col, domain.AdjustmentTypeFee, 30)

	// Удаление сопоставляет по первичному ключу, не по равенству объектов.
	stale := domain.Adjustment{ID: removed.ID, Type: domain.AdjustmentTypeFee, AmountMinor: 999}
	if err := col.Remove(ctx, stale); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	items, _ := col.Items(ctx)
	if len(items) != 1 || items[0].ID != kept.ID {
		t.Fatalf("expected only %s to remain, got %+v", kept.ID, items)
	}
}

func TestCollection_RemoveIsNoopForUnknown(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	add(t, col, domain.AdjustmentTypeTax, 100)

	// Несохранённая корректировка (без ID) — молчаливый no-op.
	if err := col.Remove(ctx, domain.Adjustment{Type: domain.AdjustmentTypeTax}); err != nil {
		t.Fatalf("remove of unpersisted value must be a no-op, got %v", err)
	}
	// Элемент вне текущего (отфильтрованного) представления тоже не трогается.
	shippingView := col.ByType(domain.AdjustmentTypeShipping)
	tax, _ := col.First(ctx)
	if err := shippingView.Remove(ctx, *tax); err != nil {
		t.Fatalf("remove outside of the view must be a no-op, got %v", err)
	}

	count, _ := col.Count(ctx)
	if count != 1 {
		t.Fatalf("expected adjustment to survive, got %d", count)
	}
}

func TestCollection_IndexedAccess(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	first := add(t, col, domain.AdjustmentTypeTax, 100)
	second := add(t, col, domain.AdjustmentTypeFee, 30)

	got, err := col.At(ctx, 0)
	if err != nil {
		t.Fatalf("at failed: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("expected %s at index 0, got %s", first.ID, got.ID)
	}

	has, _ := col.Has(ctx, 1)
	if !has {
		t.Fatal("expected index 1 to exist")
	}
	has, _ = col.Has(ctx, 2)
	if has {
		t.Fatal("index 2 must not exist")
	}

	last, _ := col.Last(ctx)
	if last == nil || last.ID != second.ID {
		t.Fatalf("expected last %s, got %+v", second.ID, last)
	}

	if err := col.Unset(ctx, 0); err != nil {
		t.Fatalf("unset failed: %v", err)
	}
	count, _ := col.Count(ctx)
	if count != 1 {
		t.Fatalf("expected 1 element after unset, got %d", count)
	}
}

func TestCollection_SetValidatesAndPersists(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	add(t, col, domain.AdjustmentTypeTax, 100)

	if err := col.Set(ctx, 0, domain.Adjustment{AmountMinor: 1}); !errors.Is(err, domain.ErrInvalidAdjustment) {
		t.Fatalf("expected ErrInvalidAdjustment, got %v", err)
	}

	replacement := domain.Adjustment{Type: domain.AdjustmentTypeDiscount, Label: "promo", AmountMinor: -50}
	if err := col.Set(ctx, 0, replacement); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	items, _ := col.Items(ctx)
	if len(items) != 1 || items[0].Type != domain.AdjustmentTypeDiscount {
		t.Fatalf("expected replacement to persist, got %+v", items)
	}
}

func TestCollection_SetKeepsPosition(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	add(t, col, domain.AdjustmentTypeTax, 100)
	add(t, col, domain.AdjustmentTypeFee, 30)
	add(t, col, domain.AdjustmentTypeDiscount, -50)

	replacement := domain.Adjustment{Type: domain.AdjustmentTypeShipping, Label: "express", AmountMinor: 900}
	if err := col.Set(ctx, 1, replacement); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	items, err := col.Items(ctx)
	if err != nil {
		t.Fatalf("items failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(items))
	}
	if items[0].Type != domain.AdjustmentTypeTax || items[2].Type != domain.AdjustmentTypeDiscount {
		t.Fatalf("neighbours must keep their slots, got %+v", items)
	}
	if items[1].Type != domain.AdjustmentTypeShipping || items[1].AmountMinor != 900 {
		t.Fatalf("replacement must occupy the replaced slot, got %+v", items[1])
	}
}

func TestCollection_AllIsRestartable(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	add(t, col, domain.AdjustmentTypeTax, 100)
	add(t, col, domain.AdjustmentTypeFee, 30)

	seq := col.All(ctx)

	count := 0
	for _, err := range seq {
		if err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 elements, got %d", count)
	}

	// Повторный запуск последовательности заново читает хранилище.
	add(t, col, domain.AdjustmentTypeDiscount, -10)
	count = 0
	for _, err := range seq {
		if err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
		count++
	}
	if count != 3 {
		t.Fatalf("expected restarted sequence to see 3 elements, got %d", count)
	}
}

func TestCollection_MapInto(t *testing.T) {
	col, _ := newCollection(t)
	ctx := context.Background()

	add(t, col, domain.AdjustmentTypeTax, 100)
	add(t, col, domain.AdjustmentTypeShipping, 490)

	labels, err := adjustments.MapInto(ctx, col, func(a domain.Adjustment) string {
		return a.Label
	})
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if len(labels) != 2 || labels[0] != "tax" || labels[1] != "shipping" {
		t.Fatalf("unexpected projection: %v", labels)
	}
}

func TestCollection_Adjustable(t *testing.T) {
	col, _ := newCollection(t)
	cart, ok := col.Adjustable().(*domain.Cart)
	if !ok || cart.ID != "cart-1" {
		t.Fatalf("expected owning cart, got %#v", col.Adjustable())
	}
}
