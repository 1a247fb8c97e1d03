package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/rental/domain/entities/customer"
	"github.com/renterra/backoffice/pkg/eventbus"
)

type CustomerCreatedEvent struct {
	Customer customer.Customer
}

type CustomerUpdatedEvent struct {
	Customer customer.Customer
}

type CustomerDeletedEvent struct {
	Customer customer.Customer
}

type CustomerService struct {
	repo      customer.Repository
	publisher eventbus.EventBus
}

func NewCustomerService(repo customer.Repository, publisher eventbus.EventBus) *CustomerService {
	return &CustomerService{repo: repo, publisher: publisher}
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (customer.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) GetPaginated(ctx context.Context, params customer.FindParams) ([]customer.Customer, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *CustomerService) Create(ctx context.Context, entity customer.Customer) (customer.Customer, error) {
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return customer.Customer{}, err
	}
	s.publisher.Publish(CustomerCreatedEvent{Customer: created})
	return created, nil
}

func (s *CustomerService) Update(ctx context.Context, entity customer.Customer) (customer.Customer, error) {
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return customer.Customer{}, err
	}
	s.publisher.Publish(CustomerUpdatedEvent{Customer: updated})
	return updated, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(CustomerDeletedEvent{Customer: entity})
	return nil
}
