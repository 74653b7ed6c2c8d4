package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
)

type adjustmentRepository struct {
	store *Store
}

// NewAdjustmentRepository создаёт PostgreSQL-реализацию AdjustmentRepository.
func NewAdjustmentRepository(store *Store) domain.AdjustmentRepository {
	return &adjustmentRepository{store: store}
}

func (r *adjustmentRepository) ListByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Adjustment, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, `
		SELECT id, owner_kind, owner_id, type, label, amount_minor, created_at
		FROM adjustments
		WHERE owner_kind = $1 AND owner_id = $2
		ORDER BY position ASC
	`, string(owner.Kind), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Adjustment, 0)
	for rows.Next() {
		var (
			a          domain.Adjustment
			ownerKind  string
			adjustType string
		)
		if err := rows.Scan(&a.ID, &ownerKind, &a.Owner.ID, &adjustType, &a.Label, &a.AmountMinor, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment row: %w", err)
		}
		a.Owner.Kind = domain.OwnerKind(ownerKind)
		a.Type = domain.AdjustmentType(adjustType)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate adjustment rows: %w", err)
	}

	return result, nil
}

func (r *adjustmentRepository) Save(ctx context.Context, adjustment *domain.Adjustment) error {
	if adjustment.ID == "" {
		adjustment.ID = uuid.NewString()
	}

	_, err := r.store.q(ctx).ExecContext(ctx, `
		INSERT INTO adjustments (
			id, owner_kind, owner_id, type, label, amount_minor, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			owner_kind = EXCLUDED.owner_kind,
			owner_id = EXCLUDED.owner_id,
			type = EXCLUDED.type,
			label = EXCLUDED.label,
			amount_minor = EXCLUDED.amount_minor
	`,
		adjustment.ID, string(adjustment.Owner.Kind), adjustment.Owner.ID,
		string(adjustment.Type), adjustment.Label, adjustment.AmountMinor, adjustment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save adjustment: %w", err)
	}

	return nil
}

func (r *adjustmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM adjustments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for adjustment delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrAdjustmentNotFound
	}

	return nil
}

func (r *adjustmentRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	// Отсутствующие ID пропускаются: пакетное удаление не различает,
	// сколько строк реально существовало.
	if _, err := r.store.q(ctx).ExecContext(ctx, `
		DELETE FROM adjustments WHERE id = ANY($1)
	`, ids); err != nil {
		return fmt.Errorf("delete adjustments batch: %w", err)
	}

	return nil
}

var _ domain.AdjustmentRepository = (*adjustmentRepository)(nil)
