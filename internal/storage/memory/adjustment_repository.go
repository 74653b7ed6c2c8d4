package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

// adjustmentRepositoryInMemory — in-memory реализация AdjustmentRepository
// поверх общего Store.
type adjustmentRepositoryInMemory struct {
	store *Store
}

// NewAdjustmentRepository возвращает in-memory репозиторий корректировок.
func NewAdjustmentRepository(store *Store) domain.AdjustmentRepository {
	return &adjustmentRepositoryInMemory{store: store}
}

// ListByOwner возвращает корректировки владельца в порядке вставки.
func (r *adjustmentRepositoryInMemory) ListByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Adjustment, error) {
	unlock := r.store.rlock(ctx)
	defer unlock()

	result := make([]domain.Adjustment, 0)
	for _, adjustment := range r.store.adjustments {
		if adjustment.Owner == owner {
			result = append(result, adjustment)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return r.store.adjustmentSeq[result[i].ID] < r.store.adjustmentSeq[result[j].ID]
	})

	return result, nil
}

// Save сохраняет новую корректировку или перезаписывает существующую по ID.
func (r *adjustmentRepositoryInMemory) Save(ctx context.Context, adjustment *domain.Adjustment) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, exists := r.store.adjustmentSeq[adjustment.ID]; !exists {
		r.store.nextSeq++
		r.store.adjustmentSeq[adjustment.ID] = r.store.nextSeq
	}
	r.store.adjustments[adjustment.ID] = *adjustment
	return nil
}

// Delete удаляет корректировку или возвращает ErrAdjustmentNotFound.
func (r *adjustmentRepositoryInMemory) Delete(ctx context.Context, id string) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, exists := r.store.adjustments[id]; !exists {
		return domain.ErrAdjustmentNotFound
	}
	delete(r.store.adjustments, id)
	delete(r.store.adjustmentSeq, id)
	return nil
}

// DeleteByIDs удаляет пакет корректировок; отсутствующие ID пропускаются.
func (r *adjustmentRepositoryInMemory) DeleteByIDs(ctx context.Context, ids []string) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, id := range ids {
		delete(r.store.adjustments, id)
		delete(r.store.adjustmentSeq, id)
	}
	return nil
}

var _ domain.AdjustmentRepository = (*adjustmentRepositoryInMemory)(nil)
