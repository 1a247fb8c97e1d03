package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/rental/domain/snapshot"
	"github.com/renterra/backoffice/pkg/serrors"
)

type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
)

var (
	ErrNotFound      = serrors.NewError("PAYMENT_NOT_FOUND", "payment not found", "Payments.Errors.NotFound")
	ErrInvalidAmount = serrors.NewError("PAYMENT_INVALID_AMOUNT", "payment amount must be positive", "Payments.Errors.InvalidAmount")
)

// Payment records money received from a customer, optionally tied to a
// reservation. Receipts travel as attachments.
type Payment struct {
	id            uuid.UUID
	customerID    uuid.UUID
	reservationID *uuid.UUID
	amount        decimal.Decimal
	currency      string
	method        Method
	paidAt        time.Time
	notes         string
	attachments   []attachment.Ref
	createdAt     time.Time
	updatedAt     time.Time
}

func New(
	customerID uuid.UUID,
	reservationID *uuid.UUID,
	amount decimal.Decimal,
	currency string,
	method Method,
	paidAt time.Time,
	notes string,
	attachments []attachment.Ref,
) Payment {
	return Payment{
		customerID:    customerID,
		reservationID: reservationID,
		amount:        amount,
		currency:      strings.ToUpper(strings.TrimSpace(currency)),
		method:        method,
		paidAt:        paidAt,
		notes:         strings.TrimSpace(notes),
		attachments:   attachments,
	}
}

func Hydrate(
	id uuid.UUID,
	customerID uuid.UUID,
	reservationID *uuid.UUID,
	amount decimal.Decimal,
	currency string,
	method Method,
	paidAt time.Time,
	notes string,
	attachments []attachment.Ref,
	createdAt time.Time,
	updatedAt time.Time,
) Payment {
	return Payment{
		id:            id,
		customerID:    customerID,
		reservationID: reservationID,
		amount:        amount,
		currency:      currency,
		method:        method,
		paidAt:        paidAt,
		notes:         notes,
		attachments:   attachments,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (p Payment) ID() uuid.UUID { return p.id }
func (p Payment) CustomerID() uuid.UUID { return p.customerID }
func (p Payment) ReservationID() *uuid.UUID { return p.reservationID }
func (p Payment) Amount() decimal.Decimal { return p.amount }
func (p Payment) Currency() string { return p.currency }
func (p Payment) Method() Method { return p.method }
func (p Payment) PaidAt() time.Time { return p.paidAt }
func (p Payment) Notes() string { return p.notes }
func (p Payment) Attachments() []attachment.Ref { return p.attachments }
func (p Payment) CreatedAt() time.Time { return p.createdAt }
func (p Payment) UpdatedAt() time.Time { return p.updatedAt }

func (p Payment) WithID(id uuid.UUID) Payment {
	p.id = id
	return p
}

func (p Payment) Validate() error {
	if !p.amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (p Payment) Snapshot() map[string]any {
	m := map[string]any{
		"id":          p.id.String(),
		"customer_id": p.customerID.String(),
		"amount":      p.amount.String(),
		"currency":    p.currency,
		"method":      string(p.method),
		"paid_at":     p.paidAt.UTC().Format(time.RFC3339),
		"notes":       p.notes,
		"attachments": snapshot.RefsAny(p.attachments),
	}
	if p.reservationID != nil {
		m["reservation_id"] = p.reservationID.String()
	}
	return m
}

func FromSnapshot(m map[string]any) (Payment, error) {
	id, err := snapshot.UUID(m, "id")
	if err != nil {
		return Payment{}, err
	}
	customerID, err := snapshot.UUID(m, "customer_id")
	if err != nil {
		return Payment{}, err
	}
	amount, err := snapshot.Decimal(m, "amount")
	if err != nil {
		return Payment{}, err
	}
	paidAt, err := snapshot.Time(m, "paid_at")
	if err != nil {
		return Payment{}, err
	}
	refs, err := snapshot.Refs(m, "attachments")
	if err != nil {
		return Payment{}, err
	}

	var reservationID *uuid.UUID
	if rid, err := snapshot.UUID(m, "reservation_id"); err != nil {
		return Payment{}, err
	} else if rid != uuid.Nil {
		reservationID = &rid
	}

	entity := New(
		customerID,
		reservationID,
		amount,
		snapshot.String(m, "currency"),
		Method(snapshot.String(m, "method")),
		paidAt,
		snapshot.String(m, "notes"),
		refs,
	)
	entity.id = id
	return entity, nil
}
