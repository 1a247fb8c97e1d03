package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/rental/domain/entities/cost"
	"github.com/renterra/backoffice/modules/rental/domain/entities/customer"
	"github.com/renterra/backoffice/modules/rental/domain/entities/payment"
	"github.com/renterra/backoffice/modules/rental/domain/entities/product"
	"github.com/renterra/backoffice/modules/rental/domain/entities/reservation"
)

type CustomerViewModel struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Address     string           `json:"address,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Attachments []attachment.Ref `json:"attachments"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func customerToViewModel(c customer.Customer) CustomerViewModel {
	refs := c.Attachments()
	if refs == nil {
		refs = []attachment.Ref{}
	}
	return CustomerViewModel{
		ID:          c.ID(),
		Name:        c.Name(),
		Email:       c.Email(),
		Phone:       c.Phone(),
		Address:     c.Address(),
		Notes:       c.Notes(),
		Attachments: refs,
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

type ProductViewModel struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Description string    `json:"description,omitempty"`
	DailyRate   string    `json:"daily_rate"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func productToViewModel(p product.Product) ProductViewModel {
	return ProductViewModel{
		ID:          p.ID(),
		Name:        p.Name(),
		SKU:         p.SKU(),
		Description: p.Description(),
		DailyRate:   p.DailyRate().String(),
		Quantity:    p.Quantity(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

type ReservationViewModel struct {
	ID         uuid.UUID   `json:"id"`
	CustomerID uuid.UUID   `json:"customer_id"`
	ProductIDs []uuid.UUID `json:"product_ids"`
	StartsAt   time.Time   `json:"starts_at"`
	EndsAt     time.Time   `json:"ends_at"`
	Status     string      `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func reservationToViewModel(r reservation.Reservation) ReservationViewModel {
	ids := r.ProductIDs()
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ReservationViewModel{
		ID:         r.ID(),
		CustomerID: r.CustomerID(),
		ProductIDs: ids,
		StartsAt:   r.StartsAt(),
		EndsAt:     r.EndsAt(),
		Status:     string(r.Status()),
		Notes:      r.Notes(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
}

type PaymentViewModel struct {
	ID            uuid.UUID        `json:"id"`
	CustomerID    uuid.UUID        `json:"customer_id"`
	ReservationID *uuid.UUID       `json:"reservation_id,omitempty"`
	Amount        string           `json:"amount"`
	Currency      string           `json:"currency"`
	Method        string           `json:"method"`
	PaidAt        time.Time        `json:"paid_at"`
	Notes         string           `json:"notes,omitempty"`
	Attachments   []attachment.Ref `json:"attachments"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func paymentToViewModel(p payment.Payment) PaymentViewModel {
	refs := p.Attachments()
	if refs == nil {
		refs = []attachment.Ref{}
	}
	return PaymentViewModel{
		ID:            p.ID(),
		CustomerID:    p.CustomerID(),
		ReservationID: p.ReservationID(),
		Amount:        p.Amount().String(),
		Currency:      p.Currency(),
		Method:        string(p.Method()),
		PaidAt:        p.PaidAt(),
		Notes:         p.Notes(),
		Attachments:   refs,
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

type CostViewModel struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	Amount     string    `json:"amount"`
	IncurredAt time.Time `json:"incurred_at"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func costToViewModel(c cost.Cost) CostViewModel {
	return CostViewModel{
		ID:         c.ID(),
		Name:       c.Name(),
		Category:   c.Category(),
		Amount:     c.Amount().String(),
		IncurredAt: c.IncurredAt(),
		Notes:      c.Notes(),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
}
