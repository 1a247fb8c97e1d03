package persistence

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/rental/domain/entities/cost"
	"github.com/renterra/backoffice/modules/rental/domain/entities/customer"
	"github.com/renterra/backoffice/modules/rental/domain/entities/payment"
	"github.com/renterra/backoffice/modules/rental/domain/entities/product"
	"github.com/renterra/backoffice/modules/rental/domain/entities/reservation"
	"github.com/renterra/backoffice/modules/rental/infrastructure/persistence/models"
)

func marshalRefs(refs []attachment.Ref) ([]byte, error) {
	if refs == nil {
		refs = []attachment.Ref{}
	}
	return json.Marshal(refs)
}

func unmarshalRefs(data []byte) ([]attachment.Ref, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var refs []attachment.Ref
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, errors.Wrap(err, "unmarshal attachments")
	}
	return refs, nil
}

func toDomainCustomer(row *models.Customer) (customer.Customer, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return customer.Customer{}, errors.Wrap(err, "parse customer id")
	}
	refs, err := unmarshalRefs(row.Attachments)
	if err != nil {
		return customer.Customer{}, err
	}
	return customer.Hydrate(
		id,
		row.Name,
		row.Email,
		row.Phone,
		row.Address,
		row.Notes,
		refs,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDomainProduct(row *models.Product) (product.Product, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return product.Product{}, errors.Wrap(err, "parse product id")
	}
	rate, err := decimal.NewFromString(row.DailyRate)
	if err != nil {
		return product.Product{}, errors.Wrap(err, "parse daily rate")
	}
	return product.Hydrate(
		id,
		row.Name,
		row.SKU,
		row.Description,
		rate,
		row.Quantity,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDomainReservation(row *models.Reservation) (reservation.Reservation, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return reservation.Reservation{}, errors.Wrap(err, "parse reservation id")
	}
	customerID, err := uuid.Parse(row.CustomerID)
	if err != nil {
		return reservation.Reservation{}, errors.Wrap(err, "parse customer id")
	}
	productIDs := make([]uuid.UUID, 0, len(row.ProductIDs))
	for _, raw := range row.ProductIDs {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return reservation.Reservation{}, errors.Wrap(err, "parse product id")
		}
		productIDs = append(productIDs, pid)
	}
	return reservation.Hydrate(
		id,
		customerID,
		productIDs,
		row.StartsAt,
		row.EndsAt,
		reservation.Status(row.Status),
		row.Notes,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDomainPayment(row *models.Payment) (payment.Payment, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "parse payment id")
	}
	customerID, err := uuid.Parse(row.CustomerID)
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "parse customer id")
	}
	var reservationID *uuid.UUID
	if row.ReservationID != nil {
		rid, err := uuid.Parse(*row.ReservationID)
		if err != nil {
			return payment.Payment{}, errors.Wrap(err, "parse reservation id")
		}
		reservationID = &rid
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "parse amount")
	}
	refs, err := unmarshalRefs(row.Attachments)
	if err != nil {
		return payment.Payment{}, err
	}
	return payment.Hydrate(
		id,
		customerID,
		reservationID,
		amount,
		row.Currency,
		payment.Method(row.Method),
		row.PaidAt,
		row.Notes,
		refs,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDomainCost(row *models.Cost) (cost.Cost, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return cost.Cost{}, errors.Wrap(err, "parse cost id")
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return cost.Cost{}, errors.Wrap(err, "parse amount")
	}
	return cost.Hydrate(
		id,
		row.Name,
		row.Category,
		amount,
		row.IncurredAt,
		row.Notes,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}
