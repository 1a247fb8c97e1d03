package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renterra/backoffice/modules/rental/domain/entities/product"
	"github.com/renterra/backoffice/modules/rental/infrastructure/persistence/models"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/repo"
)

const productColumns = `id, name, sku, description, daily_rate, quantity, created_at, updated_at`

type ProductRepository struct{}

func NewProductRepository() product.Repository {
	return &ProductRepository{}
}

func (r *ProductRepository) Create(ctx context.Context, entity product.Product) (product.Product, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return product.Product{}, err
	}

	var row models.Product
	if err := tx.QueryRow(
		ctx,
		repo.Insert(
			"products",
			[]string{"name", "sku", "description", "daily_rate", "quantity"},
			productColumns,
		),
		entity.Name(),
		entity.SKU(),
		entity.Description(),
		entity.DailyRate().String(),
		entity.Quantity(),
	).Scan(scanProductTargets(&row)...); err != nil {
		return product.Product{}, err
	}
	return toDomainProduct(&row)
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (product.Product, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return product.Product{}, err
	}

	var row models.Product
	if err := tx.QueryRow(
		ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`,
		id,
	).Scan(scanProductTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, err
	}
	return toDomainProduct(&row)
}

func (r *ProductRepository) GetPaginated(ctx context.Context, params product.FindParams) ([]product.Product, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var where []string
	var args []interface{}
	if q := strings.TrimSpace(params.Query); q != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", 1, 1))
		args = append(args, "%"+q+"%")
	}
	base := "FROM products"
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` ` + base + ` ORDER BY name ASC ` +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []product.Product
	for rows.Next() {
		var row models.Product
		if err := rows.Scan(scanProductTargets(&row)...); err != nil {
			return nil, 0, err
		}
		entity, err := toDomainProduct(&row)
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

func (r *ProductRepository) Update(ctx context.Context, entity product.Product) (product.Product, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return product.Product{}, err
	}

	var row models.Product
	if err := tx.QueryRow(
		ctx,
		repo.Update(
			"products",
			[]string{"name", "sku", "description", "daily_rate", "quantity"},
			"id = $6",
		)+` RETURNING `+productColumns,
		entity.Name(),
		entity.SKU(),
		entity.Description(),
		entity.DailyRate().String(),
		entity.Quantity(),
		entity.ID(),
	).Scan(scanProductTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, err
	}
	return toDomainProduct(&row)
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProductTargets(row *models.Product) []any {
	return []any{
		&row.ID,
		&row.Name,
		&row.SKU,
		&row.Description,
		&row.DailyRate,
		&row.Quantity,
		&row.CreatedAt,
		&row.UpdatedAt,
	}
}
