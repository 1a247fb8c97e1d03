package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	"github.com/renterra/backoffice/modules/approval/domain/diff"
	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/modules/rental/domain/entities/cost"
	"github.com/renterra/backoffice/modules/rental/domain/entities/customer"
	"github.com/renterra/backoffice/modules/rental/domain/entities/payment"
	"github.com/renterra/backoffice/modules/rental/domain/entities/product"
	"github.com/renterra/backoffice/modules/rental/domain/entities/reservation"
)

// RegisterExecutors binds each rental resource to the approval workflow, so
// approved change requests resolve back to the owning service by resource
// type alone.
func RegisterExecutors(
	registry *approvalservices.ExecutorRegistry,
	customers *CustomerService,
	products *ProductService,
	reservations *ReservationService,
	payments *PaymentService,
	costs *CostService,
) {
	registry.Register(changerequest.ResourceCustomer, &CustomerExecutor{service: customers})
	registry.Register(changerequest.ResourceProduct, &ProductExecutor{service: products})
	registry.Register(changerequest.ResourceReservation, &ReservationExecutor{service: reservations})
	registry.Register(changerequest.ResourcePayment, &PaymentExecutor{service: payments})
	registry.Register(changerequest.ResourceCost, &CostExecutor{service: costs})
}

func parseResourceID(resourceID string) (uuid.UUID, error) {
	id, err := uuid.Parse(resourceID)
	if err != nil {
		return uuid.Nil, changerequest.ErrNotFound
	}
	return id, nil
}

type CustomerExecutor struct {
	service *CustomerService
}

func (e *CustomerExecutor) Snapshot(ctx context.Context, resourceID string) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	entity, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity.Snapshot(), nil
}

func (e *CustomerExecutor) Create(ctx context.Context, snapshot map[string]any) (map[string]any, error) {
	entity, err := customer.FromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	created, err := e.service.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	return created.Snapshot(), nil
}

func (e *CustomerExecutor) Update(ctx context.Context, resourceID string, changes map[string]any) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	current, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity, err := customer.FromSnapshot(diff.Merge(current.Snapshot(), changes))
	if err != nil {
		return nil, err
	}
	updated, err := e.service.Update(ctx, entity.WithID(id))
	if err != nil {
		return nil, err
	}
	return updated.Snapshot(), nil
}

func (e *CustomerExecutor) Delete(ctx context.Context, resourceID string) error {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return err
	}
	return e.service.Delete(ctx, id)
}

type ProductExecutor struct {
	service *ProductService
}

func (e *ProductExecutor) Snapshot(ctx context.Context, resourceID string) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	entity, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity.Snapshot(), nil
}

func (e *ProductExecutor) Create(ctx context.Context, snapshot map[string]any) (map[string]any, error) {
	entity, err := product.FromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	created, err := e.service.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	return created.Snapshot(), nil
}

func (e *ProductExecutor) Update(ctx context.Context, resourceID string, changes map[string]any) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	current, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity, err := product.FromSnapshot(diff.Merge(current.Snapshot(), changes))
	if err != nil {
		return nil, err
	}
	updated, err := e.service.Update(ctx, entity.WithID(id))
	if err != nil {
		return nil, err
	}
	return updated.Snapshot(), nil
}

func (e *ProductExecutor) Delete(ctx context.Context, resourceID string) error {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return err
	}
	return e.service.Delete(ctx, id)
}

type ReservationExecutor struct {
	service *ReservationService
}

func (e *ReservationExecutor) Snapshot(ctx context.Context, resourceID string) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	entity, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity.Snapshot(), nil
}

func (e *ReservationExecutor) Create(ctx context.Context, snapshot map[string]any) (map[string]any, error) {
	entity, err := reservation.FromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	created, err := e.service.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	return created.Snapshot(), nil
}

func (e *ReservationExecutor) Update(ctx context.Context, resourceID string, changes map[string]any) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	current, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity, err := reservation.FromSnapshot(diff.Merge(current.Snapshot(), changes))
	if err != nil {
		return nil, err
	}
	updated, err := e.service.Update(ctx, entity.WithID(id))
	if err != nil {
		return nil, err
	}
	return updated.Snapshot(), nil
}

func (e *ReservationExecutor) Delete(ctx context.Context, resourceID string) error {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return err
	}
	return e.service.Delete(ctx, id)
}

type PaymentExecutor struct {
	service *PaymentService
}

func (e *PaymentExecutor) Snapshot(ctx context.Context, resourceID string) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	entity, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity.Snapshot(), nil
}

func (e *PaymentExecutor) Create(ctx context.Context, snapshot map[string]any) (map[string]any, error) {
	entity, err := payment.FromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	created, err := e.service.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	return created.Snapshot(), nil
}

func (e *PaymentExecutor) Update(ctx context.Context, resourceID string, changes map[string]any) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	current, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity, err := payment.FromSnapshot(diff.Merge(current.Snapshot(), changes))
	if err != nil {
		return nil, err
	}
	updated, err := e.service.Update(ctx, entity.WithID(id))
	if err != nil {
		return nil, err
	}
	return updated.Snapshot(), nil
}

func (e *PaymentExecutor) Delete(ctx context.Context, resourceID string) error {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return err
	}
	return e.service.Delete(ctx, id)
}

type CostExecutor struct {
	service *CostService
}

func (e *CostExecutor) Snapshot(ctx context.Context, resourceID string) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	entity, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity.Snapshot(), nil
}

func (e *CostExecutor) Create(ctx context.Context, snapshot map[string]any) (map[string]any, error) {
	entity, err := cost.FromSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	created, err := e.service.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	return created.Snapshot(), nil
}

func (e *CostExecutor) Update(ctx context.Context, resourceID string, changes map[string]any) (map[string]any, error) {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return nil, err
	}
	current, err := e.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity, err := cost.FromSnapshot(diff.Merge(current.Snapshot(), changes))
	if err != nil {
		return nil, err
	}
	updated, err := e.service.Update(ctx, entity.WithID(id))
	if err != nil {
		return nil, err
	}
	return updated.Snapshot(), nil
}

func (e *CostExecutor) Delete(ctx context.Context, resourceID string) error {
	id, err := parseResourceID(resourceID)
	if err != nil {
		return err
	}
	return e.service.Delete(ctx, id)
}
