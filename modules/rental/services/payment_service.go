package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/rental/domain/entities/payment"
	"github.com/renterra/backoffice/pkg/eventbus"
)

type PaymentCreatedEvent struct {
	Payment payment.Payment
}

type PaymentUpdatedEvent struct {
	Payment payment.Payment
}

type PaymentDeletedEvent struct {
	Payment payment.Payment
}

type PaymentService struct {
	repo      payment.Repository
	publisher eventbus.EventBus
}

func NewPaymentService(repo payment.Repository, publisher eventbus.EventBus) *PaymentService {
	return &PaymentService{repo: repo, publisher: publisher}
}

func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (payment.Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PaymentService) GetPaginated(ctx context.Context, params payment.FindParams) ([]payment.Payment, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *PaymentService) Create(ctx context.Context, entity payment.Payment) (payment.Payment, error) {
	if err := entity.Validate(); err != nil {
		return payment.Payment{}, err
	}
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return payment.Payment{}, err
	}
	s.publisher.Publish(PaymentCreatedEvent{Payment: created})
	return created, nil
}

func (s *PaymentService) Update(ctx context.Context, entity payment.Payment) (payment.Payment, error) {
	if err := entity.Validate(); err != nil {
		return payment.Payment{}, err
	}
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return payment.Payment{}, err
	}
	s.publisher.Publish(PaymentUpdatedEvent{Payment: updated})
	return updated, nil
}

func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(PaymentDeletedEvent{Payment: entity})
	return nil
}
