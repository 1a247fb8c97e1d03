package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/rental/domain/snapshot"
	"github.com/renterra/backoffice/pkg/serrors"
)

var (
	ErrNotFound   = serrors.NewError("CUSTOMER_NOT_FOUND", "customer not found", "Customers.Errors.NotFound")
	ErrEmailTaken = serrors.NewError("CUSTOMER_EMAIL_TAKEN", "email already in use", "Customers.Errors.EmailTaken")
)

type Customer struct {
	id          uuid.UUID
	name        string
	email       string
	phone       string
	address     string
	notes       string
	attachments []attachment.Ref
	createdAt   time.Time
	updatedAt   time.Time
}

func New(name, email, phone, address, notes string, attachments []attachment.Ref) Customer {
	return Customer{
		name:        strings.TrimSpace(name),
		email:       strings.ToLower(strings.TrimSpace(email)),
		phone:       strings.TrimSpace(phone),
		address:     strings.TrimSpace(address),
		notes:       strings.TrimSpace(notes),
		attachments: attachments,
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	email string,
	phone string,
	address string,
	notes string,
	attachments []attachment.Ref,
	createdAt time.Time,
	updatedAt time.Time,
) Customer {
	return Customer{
		id:          id,
		name:        name,
		email:       email,
		phone:       phone,
		address:     address,
		notes:       notes,
		attachments: attachments,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c Customer) ID() uuid.UUID { return c.id }
func (c Customer) Name() string { return c.name }
func (c Customer) Email() string { return c.email }
func (c Customer) Phone() string { return c.phone }
func (c Customer) Address() string { return c.address }
func (c Customer) Notes() string { return c.notes }
func (c Customer) Attachments() []attachment.Ref { return c.attachments }
func (c Customer) CreatedAt() time.Time { return c.createdAt }
func (c Customer) UpdatedAt() time.Time { return c.updatedAt }
func (c Customer) IsZero() bool { return c.id == uuid.Nil && c.name == "" }

func (c Customer) WithID(id uuid.UUID) Customer {
	c.id = id
	return c
}

// Snapshot renders the customer in its canonical change-request shape.
func (c Customer) Snapshot() map[string]any {
	return map[string]any{
		"id":          c.id.String(),
		"name":        c.name,
		"email":       c.email,
		"phone":       c.phone,
		"address":     c.address,
		"notes":       c.notes,
		"attachments": snapshot.RefsAny(c.attachments),
	}
}

// FromSnapshot builds a customer from a snapshot map, tolerating values that
// went through a JSON round trip.
func FromSnapshot(m map[string]any) (Customer, error) {
	id, err := snapshot.UUID(m, "id")
	if err != nil {
		return Customer{}, err
	}
	refs, err := snapshot.Refs(m, "attachments")
	if err != nil {
		return Customer{}, err
	}
	entity := New(
		snapshot.String(m, "name"),
		snapshot.String(m, "email"),
		snapshot.String(m, "phone"),
		snapshot.String(m, "address"),
		snapshot.String(m, "notes"),
		refs,
	)
	entity.id = id
	return entity, nil
}
