package cost

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renterra/backoffice/modules/rental/domain/snapshot"
	"github.com/renterra/backoffice/pkg/serrors"
)

var (
	ErrNotFound      = serrors.NewError("COST_NOT_FOUND", "cost not found", "Costs.Errors.NotFound")
	ErrInvalidAmount = serrors.NewError("COST_INVALID_AMOUNT", "cost amount must be positive", "Costs.Errors.InvalidAmount")
)

// Cost is a business expense: maintenance, purchase, insurance and the like.
type Cost struct {
	id         uuid.UUID
	name       string
	category   string
	amount     decimal.Decimal
	incurredAt time.Time
	notes      string
	createdAt  time.Time
	updatedAt  time.Time
}

func New(name, category string, amount decimal.Decimal, incurredAt time.Time, notes string) Cost {
	return Cost{
		name:       strings.TrimSpace(name),
		category:   strings.ToLower(strings.TrimSpace(category)),
		amount:     amount,
		incurredAt: incurredAt,
		notes:      strings.TrimSpace(notes),
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	category string,
	amount decimal.Decimal,
	incurredAt time.Time,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
) Cost {
	return Cost{
		id:         id,
		name:       name,
		category:   category,
		amount:     amount,
		incurredAt: incurredAt,
		notes:      notes,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (c Cost) ID() uuid.UUID { return c.id }
func (c Cost) Name() string { return c.name }
func (c Cost) Category() string { return c.category }
func (c Cost) Amount() decimal.Decimal { return c.amount }
func (c Cost) IncurredAt() time.Time { return c.incurredAt }
func (c Cost) Notes() string { return c.notes }
func (c Cost) CreatedAt() time.Time { return c.createdAt }
func (c Cost) UpdatedAt() time.Time { return c.updatedAt }

func (c Cost) WithID(id uuid.UUID) Cost {
	c.id = id
	return c
}

func (c Cost) Validate() error {
	if !c.amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (c Cost) Snapshot() map[string]any {
	return map[string]any{
		"id":          c.id.String(),
		"name":        c.name,
		"category":    c.category,
		"amount":      c.amount.String(),
		"incurred_at": c.incurredAt.UTC().Format(time.RFC3339),
		"notes":       c.notes,
	}
}

func FromSnapshot(m map[string]any) (Cost, error) {
	id, err := snapshot.UUID(m, "id")
	if err != nil {
		return Cost{}, err
	}
	amount, err := snapshot.Decimal(m, "amount")
	if err != nil {
		return Cost{}, err
	}
	incurredAt, err := snapshot.Time(m, "incurred_at")
	if err != nil {
		return Cost{}, err
	}
	entity := New(
		snapshot.String(m, "name"),
		snapshot.String(m, "category"),
		amount,
		incurredAt,
		snapshot.String(m, "notes"),
	)
	entity.id = id
	return entity, nil
}
