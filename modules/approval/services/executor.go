package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
)

// MutationExecutor applies approved mutations to one resource type. The
// workflow resolves executors by resource type at execution time — a
// pending change request never holds a live callback across requests,
// only data.
type MutationExecutor interface {
	// Snapshot returns the current state of the resource as a field map.
	Snapshot(ctx context.Context, resourceID string) (map[string]any, error)
	// Create persists a new resource from a full snapshot.
	Create(ctx context.Context, snapshot map[string]any) (map[string]any, error)
	// Update applies a sparse change-set onto the resource's current
	// state, leaving untouched fields as they are now.
	Update(ctx context.Context, resourceID string, changes map[string]any) (map[string]any, error)
	// Delete removes the resource.
	Delete(ctx context.Context, resourceID string) error
}

// ExecutorRegistry maps resource types to their mutation executors.
// Modules register executors for the resources they own.
type ExecutorRegistry struct {
	mu        sync.RWMutex
	executors map[changerequest.ResourceType]MutationExecutor
}

func NewExecutorRegistry() *ExecutorRegistry {
	return &ExecutorRegistry{
		executors: map[changerequest.ResourceType]MutationExecutor{},
	}
}

func (r *ExecutorRegistry) Register(resource changerequest.ResourceType, executor MutationExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[resource] = executor
}

func (r *ExecutorRegistry) Resolve(resource changerequest.ResourceType) (MutationExecutor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	executor, ok := r.executors[resource]
	if !ok {
		return nil, fmt.Errorf("no mutation executor registered for resource type %q", resource)
	}
	return executor, nil
}
