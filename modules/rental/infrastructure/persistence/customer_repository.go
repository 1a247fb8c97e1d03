package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renterra/backoffice/modules/rental/domain/entities/customer"
	"github.com/renterra/backoffice/modules/rental/infrastructure/persistence/models"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/repo"
)

const customerColumns = `id, name, email, phone, address, notes, attachments, created_at, updated_at`

type CustomerRepository struct{}

func NewCustomerRepository() customer.Repository {
	return &CustomerRepository{}
}

func (r *CustomerRepository) Create(ctx context.Context, entity customer.Customer) (customer.Customer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return customer.Customer{}, err
	}
	attachments, err := marshalRefs(entity.Attachments())
	if err != nil {
		return customer.Customer{}, err
	}

	var row models.Customer
	if err := tx.QueryRow(
		ctx,
		repo.Insert(
			"customers",
			[]string{"name", "email", "phone", "address", "notes", "attachments"},
			customerColumns,
		),
		entity.Name(),
		entity.Email(),
		entity.Phone(),
		entity.Address(),
		entity.Notes(),
		attachments,
	).Scan(scanCustomerTargets(&row)...); err != nil {
		return customer.Customer{}, err
	}
	return toDomainCustomer(&row)
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (customer.Customer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return customer.Customer{}, err
	}

	var row models.Customer
	if err := tx.QueryRow(
		ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`,
		id,
	).Scan(scanCustomerTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return customer.Customer{}, customer.ErrNotFound
		}
		return customer.Customer{}, err
	}
	return toDomainCustomer(&row)
}

func (r *CustomerRepository) GetPaginated(ctx context.Context, params customer.FindParams) ([]customer.Customer, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var where []string
	var args []interface{}
	if q := strings.TrimSpace(params.Query); q != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", 1, 1))
		args = append(args, "%"+q+"%")
	}
	base := "FROM customers"
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + customerColumns + ` ` + base + ` ORDER BY created_at DESC ` +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []customer.Customer
	for rows.Next() {
		var row models.Customer
		if err := rows.Scan(scanCustomerTargets(&row)...); err != nil {
			return nil, 0, err
		}
		entity, err := toDomainCustomer(&row)
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

func (r *CustomerRepository) Update(ctx context.Context, entity customer.Customer) (customer.Customer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return customer.Customer{}, err
	}
	attachments, err := marshalRefs(entity.Attachments())
	if err != nil {
		return customer.Customer{}, err
	}

	var row models.Customer
	if err := tx.QueryRow(
		ctx,
		repo.Update(
			"customers",
			[]string{"name", "email", "phone", "address", "notes", "attachments"},
			"id = $7",
		)+` RETURNING `+customerColumns,
		entity.Name(),
		entity.Email(),
		entity.Phone(),
		entity.Address(),
		entity.Notes(),
		attachments,
		entity.ID(),
	).Scan(scanCustomerTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return customer.Customer{}, customer.ErrNotFound
		}
		return customer.Customer{}, err
	}
	return toDomainCustomer(&row)
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func scanCustomerTargets(row *models.Customer) []any {
	return []any{
		&row.ID,
		&row.Name,
		&row.Email,
		&row.Phone,
		&row.Address,
		&row.Notes,
		&row.Attachments,
		&row.CreatedAt,
		&row.UpdatedAt,
	}
}
