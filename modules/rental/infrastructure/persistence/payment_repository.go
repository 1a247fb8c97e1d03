package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/renterra/backoffice/modules/rental/domain/entities/payment"
	"github.com/renterra/backoffice/modules/rental/infrastructure/persistence/models"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/repo"
)

const paymentColumns = `id, customer_id, reservation_id, amount, currency, method, paid_at, notes, attachments, created_at, updated_at`

type PaymentRepository struct{}

func NewPaymentRepository() payment.Repository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) Create(ctx context.Context, entity payment.Payment) (payment.Payment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return payment.Payment{}, err
	}
	attachments, err := marshalRefs(entity.Attachments())
	if err != nil {
		return payment.Payment{}, err
	}

	var row models.Payment
	if err := tx.QueryRow(
		ctx,
		repo.Insert(
			"payments",
			[]string{"customer_id", "reservation_id", "amount", "currency", "method", "paid_at", "notes", "attachments"},
			paymentColumns,
		),
		entity.CustomerID(),
		entity.ReservationID(),
		entity.Amount().String(),
		entity.Currency(),
		string(entity.Method()),
		entity.PaidAt(),
		entity.Notes(),
		attachments,
	).Scan(scanPaymentTargets(&row)...); err != nil {
		return payment.Payment{}, err
	}
	return toDomainPayment(&row)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (payment.Payment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return payment.Payment{}, err
	}

	var row models.Payment
	if err := tx.QueryRow(
		ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`,
		id,
	).Scan(scanPaymentTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return payment.Payment{}, payment.ErrNotFound
		}
		return payment.Payment{}, err
	}
	return toDomainPayment(&row)
}

func (r *PaymentRepository) GetPaginated(ctx context.Context, params payment.FindParams) ([]payment.Payment, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var where []string
	var args []interface{}
	argPos := 1
	if params.CustomerID != nil {
		where = append(where, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *params.CustomerID)
		argPos++
	}
	if params.ReservationID != nil {
		where = append(where, fmt.Sprintf("reservation_id = $%d", argPos))
		args = append(args, *params.ReservationID)
	}
	base := "FROM payments"
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paymentColumns + ` ` + base + ` ORDER BY paid_at DESC ` +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []payment.Payment
	for rows.Next() {
		var row models.Payment
		if err := rows.Scan(scanPaymentTargets(&row)...); err != nil {
			return nil, 0, err
		}
		entity, err := toDomainPayment(&row)
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

func (r *PaymentRepository) Update(ctx context.Context, entity payment.Payment) (payment.Payment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return payment.Payment{}, err
	}
	attachments, err := marshalRefs(entity.Attachments())
	if err != nil {
		return payment.Payment{}, err
	}

	var row models.Payment
	if err := tx.QueryRow(
		ctx,
		repo.Update(
			"payments",
			[]string{"customer_id", "reservation_id", "amount", "currency", "method", "paid_at", "notes", "attachments"},
			"id = $9",
		)+` RETURNING `+paymentColumns,
		entity.CustomerID(),
		entity.ReservationID(),
		entity.Amount().String(),
		entity.Currency(),
		string(entity.Method()),
		entity.PaidAt(),
		entity.Notes(),
		attachments,
		entity.ID(),
	).Scan(scanPaymentTargets(&row)...); err != nil {
		if err == pgx.ErrNoRows {
			return payment.Payment{}, payment.ErrNotFound
		}
		return payment.Payment{}, err
	}
	return toDomainPayment(&row)
}

func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrNotFound
	}
	return nil
}

func scanPaymentTargets(row *models.Payment) []any {
	return []any{
		&row.ID,
		&row.CustomerID,
		&row.ReservationID,
		&row.Amount,
		&row.Currency,
		&row.Method,
		&row.PaidAt,
		&row.Notes,
		&row.Attachments,
		&row.CreatedAt,
		&row.UpdatedAt,
	}
}
