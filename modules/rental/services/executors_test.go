package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/modules/rental/domain/entities/customer"
	"github.com/renterra/backoffice/modules/rental/services"
	"github.com/renterra/backoffice/pkg/eventbus"
)

type memoryCustomerRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]customer.Customer
}

func newMemoryCustomerRepository() *memoryCustomerRepository {
	return &memoryCustomerRepository{items: map[uuid.UUID]customer.Customer{}}
}

func (r *memoryCustomerRepository) Create(_ context.Context, entity customer.Customer) (customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := entity.WithID(uuid.New())
	r.items[stored.ID()] = stored
	return stored, nil
}

func (r *memoryCustomerRepository) GetByID(_ context.Context, id uuid.UUID) (customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.items[id]
	if !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	return entity, nil
}

func (r *memoryCustomerRepository) GetPaginated(_ context.Context, _ customer.FindParams) ([]customer.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]customer.Customer, 0, len(r.items))
	for _, entity := range r.items {
		out = append(out, entity)
	}
	return out, int64(len(out)), nil
}

func (r *memoryCustomerRepository) Update(_ context.Context, entity customer.Customer) (customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[entity.ID()]; !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	r.items[entity.ID()] = entity
	return entity, nil
}

func (r *memoryCustomerRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return customer.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func customerExecutorFixture(t *testing.T) (*memoryCustomerRepository, approvalservices.MutationExecutor) {
	t.Helper()
	repo := newMemoryCustomerRepository()
	publisher := eventbus.NewEventPublisher(logrus.New())
	registry := approvalservices.NewExecutorRegistry()
	services.RegisterExecutors(
		registry,
		services.NewCustomerService(repo, publisher),
		services.NewProductService(nil, publisher),
		services.NewReservationService(nil, publisher),
		services.NewPaymentService(nil, publisher),
		services.NewCostService(nil, publisher),
	)
	executor, err := registry.Resolve(changerequest.ResourceCustomer)
	require.NoError(t, err)
	return repo, executor
}

func TestCustomerExecutor_CreateFromSnapshot(t *testing.T) {
	repo, executor := customerExecutorFixture(t)

	result, err := executor.Create(context.Background(), map[string]any{
		"name":  "Jamie Fox",
		"email": "jamie@example.com",
		"phone": "555-1",
	})
	require.NoError(t, err)
	require.Len(t, repo.items, 1)
	require.Equal(t, "Jamie Fox", result["name"])

	id, err := uuid.Parse(result["id"].(string))
	require.NoError(t, err)
	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "jamie@example.com", stored.Email())
}

func TestCustomerExecutor_UpdateMergesSparseChanges(t *testing.T) {
	repo, executor := customerExecutorFixture(t)
	seeded, err := repo.Create(context.Background(), customer.New("Jamie Fox", "jamie@example.com", "555-1", "", "", nil))
	require.NoError(t, err)

	result, err := executor.Update(context.Background(), seeded.ID().String(), map[string]any{
		"phone": "555-9",
	})
	require.NoError(t, err)
	require.Equal(t, "555-9", result["phone"])
	require.Equal(t, "Jamie Fox", result["name"])

	stored, err := repo.GetByID(context.Background(), seeded.ID())
	require.NoError(t, err)
	require.Equal(t, "555-9", stored.Phone())
	require.Equal(t, "jamie@example.com", stored.Email())
	require.Empty(t, stored.Attachments())
}

func TestCustomerExecutor_Delete(t *testing.T) {
	repo, executor := customerExecutorFixture(t)
	seeded, err := repo.Create(context.Background(), customer.New("Jamie Fox", "jamie@example.com", "", "", "", nil))
	require.NoError(t, err)

	require.NoError(t, executor.Delete(context.Background(), seeded.ID().String()))
	_, err = repo.GetByID(context.Background(), seeded.ID())
	require.ErrorIs(t, err, customer.ErrNotFound)
}

func TestCustomerExecutor_MalformedIDReportsNotFound(t *testing.T) {
	_, executor := customerExecutorFixture(t)

	_, err := executor.Snapshot(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, changerequest.ErrNotFound)

	_, err = executor.Update(context.Background(), "not-a-uuid", map[string]any{"phone": "555-9"})
	require.ErrorIs(t, err, changerequest.ErrNotFound)
}

func TestRegisterExecutors_CoversAllRentalResources(t *testing.T) {
	publisher := eventbus.NewEventPublisher(logrus.New())
	registry := approvalservices.NewExecutorRegistry()
	services.RegisterExecutors(
		registry,
		services.NewCustomerService(newMemoryCustomerRepository(), publisher),
		services.NewProductService(nil, publisher),
		services.NewReservationService(nil, publisher),
		services.NewPaymentService(nil, publisher),
		services.NewCostService(nil, publisher),
	)

	for _, resource := range []changerequest.ResourceType{
		changerequest.ResourceCustomer,
		changerequest.ResourceProduct,
		changerequest.ResourceReservation,
		changerequest.ResourcePayment,
		changerequest.ResourceCost,
	} {
		_, err := registry.Resolve(resource)
		require.NoError(t, err)
	}
}
