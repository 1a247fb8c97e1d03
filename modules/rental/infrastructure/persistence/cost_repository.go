package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renterra/backoffice/modules/rental/domain/entities/cost"
	"github.com/renterra/backoffice/modules/rental/infrastructure/persistence/models"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/repo"
)

const costColumns = `id, name, category, amount, incurred_at, notes, created_at, updated_at`

type CostRepository struct{}

func NewCostRepository() cost.Repository {
	return &CostRepository{}
}

func (r *CostRepository) Create(ctx context.Context, entity cost.Cost) (cost.Cost, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return cost.Cost{}, err
	}

	var row models.Cost
	if err := tx.QueryRow(
		ctx,
		repo.Insert(
			"costs",
			[]string{"name", "category", "amount", "incurred_at", "notes"},
			costColumns,
		),
		entity.Name(),
		entity.Category(),
		entity.Amount().String(),
		entity.IncurredAt(),
		entity.Notes(),
	).Scan(scanCostTargets(&row)...); err != nil {
		return cost.Cost{}, err
	}
	return toDomainCost(&row)
}

func (r *CostRepository) GetByID(ctx context.Context, id uuid.UUID) (cost.Cost, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return cost.Cost{}, err
	}

	var row models.Cost
	if err := tx.QueryRow(
		ctx,
		`SELECT `+costColumns+` FROM costs WHERE id = $1`,
		id,
	).Scan(scanCostTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return cost.Cost{}, cost.ErrNotFound
		}
		return cost.Cost{}, err
	}
	return toDomainCost(&row)
}

func (r *CostRepository) GetPaginated(ctx context.Context, params cost.FindParams) ([]cost.Cost, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var where []string
	var args []interface{}
	if category := strings.TrimSpace(params.Category); category != "" {
		where = append(where, fmt.Sprintf("category = $%d", 1))
		args = append(args, category)
	}
	base := "FROM costs"
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + costColumns + ` ` + base + ` ORDER BY incurred_at DESC ` +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []cost.Cost
	for rows.Next() {
		var row models.Cost
		if err := rows.Scan(scanCostTargets(&row)...); err != nil {
			return nil, 0, err
		}
		entity, err := toDomainCost(&row)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *CostRepository) Update(ctx context.Context, entity cost.Cost) (cost.Cost, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return cost.Cost{}, err
	}

	var row models.Cost
	if err := tx.QueryRow(
		ctx,
		repo.Update(
			"costs",
			[]string{"name", "category", "amount", "incurred_at", "notes"},
			"id = $6",
		)+` RETURNING `+costColumns,
		entity.Name(),
		entity.Category(),
		entity.Amount().String(),
		entity.IncurredAt(),
		entity.Notes(),
		entity.ID(),
	).Scan(scanCostTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return cost.Cost{}, cost.ErrNotFound
		}
		return cost.Cost{}, err
	}
	return toDomainCost(&row)
}

func (r *CostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM costs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return cost.ErrNotFound
	}
	return nil
}

func scanCostTargets(row *models.Cost) []any {
	return []any{
		&row.ID,
		&row.Name,
		&row.Category,
		&row.Amount,
		&row.IncurredAt,
		&row.Notes,
		&row.CreatedAt,
		&row.UpdatedAt,
	}
}
