// Package adjustments реализует коллекцию денежных корректировок как
// живое представление поверх репозитория: каждое чтение идёт в хранилище,
// каждая мутация немедленно сохраняется. Скрытых кэшей и снапшотов нет.
package adjustments

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// Collection — набор корректировок одного владельца, опционально суженный
// фильтром по типу. Фильтр — проекция чтения: отфильтрованное и полное
// представления всегда отражают один и тот же сохранённый набор.
type Collection struct {
	owner domain.Adjustable
	repo  domain.AdjustmentRepository
	// typeFilter == nil означает полное представление.
	typeFilter *domain.AdjustmentType
}

// New создаёт полное (нефильтрованное) представление корректировок владельца.
func New(owner domain.Adjustable, repo domain.AdjustmentRepository) *Collection {
	return &Collection{owner: owner, repo: repo}
}

// Adjustable возвращает владельца коллекции.
func (c *Collection) Adjustable() domain.Adjustable {
	return c.owner
}

// ByType возвращает новое представление того же владельца, суженное фильтром
// по типу. Исходная коллекция не изменяется; сравнение тегов — по значению.
func (c *Collection) ByType(t domain.AdjustmentType) *Collection {
	return &Collection{owner: c.owner, repo: c.repo, typeFilter: &t}
}

// Create строит корректировку через adjuster, сохраняет её и возвращает результат.
func (c *Collection) Create(ctx context.Context, adjuster domain.Adjuster) (domain.Adjustment, error) {
	adjustment := adjuster.CreateAdjustment(c.owner)
	if err := c.Add(ctx, &adjustment); err != nil {
		return domain.Adjustment{}, err
	}
	return adjustment, nil
}

// Add назначает корректировке текущего владельца и сохраняет её.
// Повторный вызов с тем же объектом не идемпотентен — это зона
// ответственности вызывающего кода.
func (c *Collection) Add(ctx context.Context, adjustment *domain.Adjustment) error {
	if err := adjustment.Validate(); err != nil {
		return err
	}
	adjustment.Owner = c.owner.AdjustmentOwner()
	if adjustment.ID == "" {
		adjustment.ID = uuid.NewString()
	}
	if adjustment.CreatedAt.IsZero() {
		adjustment.CreatedAt = time.Now().UTC()
	}
	return c.repo.Save(ctx, adjustment)
}

// Remove удаляет корректировку, найдя её по равенству первичного ключа
// среди текущего (возможно отфильтрованного) представления.
// Несохранённые и чужие корректировки молча игнорируются.
func (c *Collection) Remove(ctx context.Context, adjustment domain.Adjustment) error {
	if adjustment.ID == "" {
		return nil
	}
	items, err := c.items(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == adjustment.ID {
			return c.repo.Delete(ctx, item.ID)
		}
	}
	return nil
}

// Clear удаляет все корректировки текущего представления. Список целей
// материализуется до удаления, поэтому итерация по изменяемой
// последовательности исключена. Элементы вне фильтра не затрагиваются.
func (c *Collection) Clear(ctx context.Context) error {
	items, err := c.items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return c.repo.DeleteByIDs(ctx, ids)
}

// TotalMinor возвращает точную сумму корректировок представления в минимальных единицах.
func (c *Collection) TotalMinor(ctx context.Context) (int64, error) {
	items, err := c.items(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, item := range items {
		total += item.AmountMinor
	}
	return total, nil
}

// Total возвращает сумму представления как число с плавающей точкой;
// для пустого представления — 0.0.
func (c *Collection) Total(ctx context.Context) (float64, error) {
	total, err := c.TotalMinor(ctx)
	if err != nil {
		return 0, err
	}
	return float64(total), nil
}

// Count возвращает число элементов текущего представления.
func (c *Collection) Count(ctx context.Context) (int, error) {
	items, err := c.items(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// IsEmpty сообщает, что представление пусто.
func (c *Collection) IsEmpty(ctx context.Context) (bool, error) {
	count, err := c.Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// IsNotEmpty сообщает, что в представлении есть хотя бы один элемент.
func (c *Collection) IsNotEmpty(ctx context.Context) (bool, error) {
	empty, err := c.IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// First возвращает первый элемент представления или nil, если оно пусто.
func (c *Collection) First(ctx context.Context) (*domain.Adjustment, error) {
	items, err := c.items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	first := items[0]
	return &first, nil
}

// Last возвращает последний элемент представления или nil, если оно пусто.
func (c *Collection) Last(ctx context.Context) (*domain.Adjustment, error) {
	items, err := c.items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	last := items[len(items)-1]
	return &last, nil
}

// Has сообщает, существует ли элемент с данным индексом в представлении.
func (c *Collection) Has(ctx context.Context, index int) (bool, error) {
	count, err := c.Count(ctx)
	if err != nil {
		return false, err
	}
	return index >= 0 && index < count, nil
}

// At возвращает элемент представления по индексу или ErrAdjustmentNotFound.
func (c *Collection) At(ctx context.Context, index int) (domain.Adjustment, error) {
	items, err := c.items(ctx)
	if err != nil {
		return domain.Adjustment{}, err
	}
	if index < 0 || index >= len(items) {
		return domain.Adjustment{}, domain.ErrAdjustmentNotFound
	}
	return items[index], nil
}

// Set заменяет элемент по индексу: новая запись наследует ID прежней,
// поэтому сохраняет её позицию в представлении. Невалидные значения
// отклоняются с ErrInvalidAdjustment.
func (c *Collection) Set(ctx context.Context, index int, adjustment domain.Adjustment) error {
	if err := adjustment.Validate(); err != nil {
		return err
	}
	current, err := c.At(ctx, index)
	if err != nil {
		return err
	}
	adjustment.ID = current.ID
	return c.Add(ctx, &adjustment)
}

// Unset удаляет элемент представления по индексу; отсутствующий индекс — no-op.
func (c *Collection) Unset(ctx context.Context, index int) error {
	current, err := c.At(ctx, index)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	return c.repo.Delete(ctx, current.ID)
}

// All возвращает ленивую перезапускаемую последовательность элементов
// представления. Каждый перезапуск итерации заново читает хранилище.
func (c *Collection) All(ctx context.Context) iter.Seq2[domain.Adjustment, error] {
	return func(yield func(domain.Adjustment, error) bool) {
		items, err := c.items(ctx)
		if err != nil {
			yield(domain.Adjustment{}, err)
			return
		}
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Items материализует текущее представление в срез.
func (c *Collection) Items(ctx context.Context) ([]domain.Adjustment, error) {
	return c.items(ctx)
}

// items читает набор владельца и применяет фильтр по типу.
func (c *Collection) items(ctx context.Context) ([]domain.Adjustment, error) {
	all, err := c.repo.ListByOwner(ctx, c.owner.AdjustmentOwner())
	if err != nil {
		return nil, err
	}
	if c.typeFilter == nil {
		return all, nil
	}
	filtered := make([]domain.Adjustment, 0, len(all))
	for _, item := range all {
		if c.typeFilter.Equals(item.Type) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// MapInto проецирует каждый элемент представления в другое описание.
func MapInto[T any](ctx context.Context, c *Collection, fn func(domain.Adjustment) T) ([]T, error) {
	items, err := c.items(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(items))
	for _, item := range items {
		result = append(result, fn(item))
	}
	return result, nil
}
