package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renterra/backoffice/modules/rental/domain/snapshot"
	"github.com/renterra/backoffice/pkg/serrors"
)

var (
	ErrNotFound = serrors.NewError("PRODUCT_NOT_FOUND", "product not found", "Products.Errors.NotFound")
	ErrSKUTaken = serrors.NewError("PRODUCT_SKU_TAKEN", "sku already in use", "Products.Errors.SKUTaken")
)

// Product is a rentable item in the catalog. Quantity is the owned stock,
// not current availability.
type Product struct {
	id          uuid.UUID
	name        string
	sku         string
	description string
	dailyRate   decimal.Decimal
	quantity    int
	createdAt   time.Time
	updatedAt   time.Time
}

func New(name, sku, description string, dailyRate decimal.Decimal, quantity int) Product {
	return Product{
		name:        strings.TrimSpace(name),
		sku:         strings.ToUpper(strings.TrimSpace(sku)),
		description: strings.TrimSpace(description),
		dailyRate:   dailyRate,
		quantity:    quantity,
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	sku string,
	description string,
	dailyRate decimal.Decimal,
	quantity int,
	createdAt time.Time,
	updatedAt time.Time,
) Product {
	return Product{
		id:          id,
		name:        name,
		sku:         sku,
		description: description,
		dailyRate:   dailyRate,
		quantity:    quantity,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p Product) ID() uuid.UUID { return p.id }
func (p Product) Name() string { return p.name }
func (p Product) SKU() string { return p.sku }
func (p Product) Description() string { return p.description }
func (p Product) DailyRate() decimal.Decimal { return p.dailyRate }
func (p Product) Quantity() int { return p.quantity }
func (p Product) CreatedAt() time.Time { return p.createdAt }
func (p Product) UpdatedAt() time.Time { return p.updatedAt }
func (p Product) IsZero() bool { return p.id == uuid.Nil && p.sku == "" }

func (p Product) WithID(id uuid.UUID) Product {
	p.id = id
	return p
}

func (p Product) Snapshot() map[string]any {
	return map[string]any{
		"id":          p.id.String(),
		"name":        p.name,
		"sku":         p.sku,
		"description": p.description,
		"daily_rate":  p.dailyRate.String(),
		"quantity":    p.quantity,
	}
}

func FromSnapshot(m map[string]any) (Product, error) {
	id, err := snapshot.UUID(m, "id")
	if err != nil {
		return Product{}, err
	}
	rate, err := snapshot.Decimal(m, "daily_rate")
	if err != nil {
		return Product{}, err
	}
	entity := New(
		snapshot.String(m, "name"),
		snapshot.String(m, "sku"),
		snapshot.String(m, "description"),
		rate,
		snapshot.Int(m, "quantity"),
	)
	entity.id = id
	return entity, nil
}
