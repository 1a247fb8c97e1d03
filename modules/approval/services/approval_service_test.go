package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	"github.com/renterra/backoffice/modules/approval/domain/diff"
	"github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/pkg/eventbus"
)

type memoryRepository struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*changerequest.ChangeRequest
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{requests: map[uuid.UUID]*changerequest.ChangeRequest{}}
}

func (r *memoryRepository) Create(ctx context.Context, req *changerequest.ChangeRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.New()
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*changerequest.ChangeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, changerequest.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *memoryRepository) List(ctx context.Context, params changerequest.FindParams) ([]changerequest.ChangeRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]changerequest.ChangeRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

// Review mirrors the Postgres compare-and-set: the transition only happens
// when the stored status is still pending.
func (r *memoryRepository) Review(ctx context.Context, id uuid.UUID, params changerequest.ReviewParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return changerequest.ErrNotFound
	}
	if req.Status != changerequest.StatusPending {
		return changerequest.ErrAlreadyReviewed
	}
	req.Status = params.Status
	req.ReviewedBy = &params.ReviewedBy
	reviewedAt := params.ReviewedAt
	req.ReviewedAt = &reviewedAt
	req.ReviewComment = params.Comment
	return nil
}

type recordingExecutor struct {
	mu        sync.Mutex
	state     map[string]map[string]any
	creates   int
	updates   int
	deletes   int
	lastInput map[string]any
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{state: map[string]map[string]any{}}
}

func (e *recordingExecutor) Snapshot(ctx context.Context, resourceID string) (map[string]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current, ok := e.state[resourceID]
	if !ok {
		return nil, changerequest.ErrNotFound
	}
	return diff.Merge(current, nil), nil
}

func (e *recordingExecutor) Create(ctx context.Context, snapshot map[string]any) (map[string]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.creates++
	e.lastInput = snapshot
	id := uuid.NewString()
	e.state[id] = diff.Merge(snapshot, nil)
	return diff.Merge(snapshot, map[string]any{"id": id}), nil
}

func (e *recordingExecutor) Update(ctx context.Context, resourceID string, changes map[string]any) (map[string]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updates++
	e.lastInput = changes
	current, ok := e.state[resourceID]
	if !ok {
		return nil, changerequest.ErrNotFound
	}
	e.state[resourceID] = diff.Merge(current, changes)
	return e.state[resourceID], nil
}

func (e *recordingExecutor) Delete(ctx context.Context, resourceID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deletes++
	if _, ok := e.state[resourceID]; !ok {
		return changerequest.ErrNotFound
	}
	delete(e.state, resourceID)
	return nil
}

type fixture struct {
	service  *services.ApprovalService
	repo     *memoryRepository
	executor *recordingExecutor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMemoryRepository()
	executor := newRecordingExecutor()
	registry := services.NewExecutorRegistry()
	registry.Register(changerequest.ResourcePayment, executor)
	registry.Register(changerequest.ResourceCustomer, executor)

	persist := func(ctx context.Context, file attachment.RawFile) (attachment.Ref, error) {
		return attachment.Ref{Name: file.Name, SizeBytes: int64(len(file.Data)), Locator: "stored/" + file.Name}, nil
	}

	svc := services.NewApprovalService(
		repo,
		services.NewReviewPolicy(),
		registry,
		persist,
		nil,
		eventbus.NewEventPublisher(logrus.New()),
	)
	return &fixture{service: svc, repo: repo, executor: executor}
}

func admin() changerequest.Requester {
	return changerequest.Requester{ID: uuid.New(), Name: "Ada Admin", Role: services.RoleAdmin}
}

func clerk() changerequest.Requester {
	return changerequest.Requester{ID: uuid.New(), Name: "Carl Clerk", Role: services.RoleClerk}
}

func manager() changerequest.Requester {
	return changerequest.Requester{ID: uuid.New(), Name: "Mia Manager", Role: services.RoleManager}
}

func strPtr(s string) *string { return &s }

func TestSubmit_ImmediateExecution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.executor.Create(ctx, map[string]any{"amount": float64(100)})
	require.NoError(t, err)
	id := created["id"].(string)

	res, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:        admin(),
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourcePayment,
		ResourceID:       &id,
		OriginalSnapshot: map[string]any{"amount": float64(100)},
		ProposedSnapshot: map[string]any{"amount": float64(150)},
	})
	require.NoError(t, err)
	require.True(t, res.Executed)
	require.Nil(t, res.Request)
	require.Equal(t, 2, f.executor.creates+f.executor.updates)
	require.Equal(t, map[string]any{"amount": float64(150)}, f.executor.lastInput)
}

func TestSubmit_DeferredNeverInvokesCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := "c-1"
	f.executor.state[id] = map[string]any{"phone": "555-1", "email": "a@b.c"}

	res, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:        clerk(),
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceCustomer,
		ResourceID:       &id,
		OriginalSnapshot: map[string]any{"phone": "555-1", "email": "a@b.c"},
		ProposedSnapshot: map[string]any{"phone": "555-2", "email": "a@b.c"},
		Reason:           "typo in phone",
	})
	require.NoError(t, err)
	require.False(t, res.Executed)
	require.NotNil(t, res.Request)
	require.Equal(t, changerequest.StatusPending, res.Request.Status)
	require.Equal(t, map[string]any{"phone": "555-2"}, res.Request.ProposedChanges)
	require.Equal(t, "555-1", res.Request.OriginalSnapshot["phone"])
	require.Zero(t, f.executor.updates, "mutation must not run before approval")
}

func TestApprove_AppliesChangeSetOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := "c-1"
	f.executor.state[id] = map[string]any{"phone": "555-1", "email": "a@b.c"}

	requester := clerk()
	res, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:        requester,
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceCustomer,
		ResourceID:       &id,
		OriginalSnapshot: map[string]any{"phone": "555-1"},
		ProposedSnapshot: map[string]any{"phone": "555-2"},
	})
	require.NoError(t, err)

	// concurrent unrelated edit before approval
	f.executor.state[id]["email"] = "new@b.c"

	reviewed, result, err := f.service.Approve(ctx, res.Request.ID, services.ReviewParams{
		Reviewer: manager(),
		Comment:  "looks right",
	})
	require.NoError(t, err)
	require.Equal(t, changerequest.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)
	require.Equal(t, 1, f.executor.updates)
	require.Equal(t, map[string]any{"phone": "555-2"}, f.executor.lastInput)
	require.Equal(t, "new@b.c", result["email"], "unrelated concurrent edit must survive")

	// duplicate approval is a no-op error, not a second execution
	_, _, err = f.service.Approve(ctx, res.Request.ID, services.ReviewParams{Reviewer: manager()})
	require.ErrorIs(t, err, changerequest.ErrAlreadyReviewed)
	require.Equal(t, 1, f.executor.updates)
}

func TestReject_NeverMutates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := "c-9"
	f.executor.state[id] = map[string]any{"phone": "555-1"}

	res, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:        clerk(),
		Action:           changerequest.ActionDelete,
		Resource:         changerequest.ResourceCustomer,
		ResourceID:       &id,
		OriginalSnapshot: map[string]any{"phone": "555-1"},
	})
	require.NoError(t, err)
	require.False(t, res.Executed)

	reviewed, err := f.service.Reject(ctx, res.Request.ID, services.ReviewParams{Reviewer: manager(), Comment: "keep it"})
	require.NoError(t, err)
	require.Equal(t, changerequest.StatusRejected, reviewed.Status)
	require.Zero(t, f.executor.deletes)
	require.Contains(t, f.executor.state, id)

	_, err = f.service.Reject(ctx, res.Request.ID, services.ReviewParams{Reviewer: manager()})
	require.ErrorIs(t, err, changerequest.ErrAlreadyReviewed)
}

func TestReview_SelfReviewDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := "c-2"
	f.executor.state[id] = map[string]any{"phone": "1"}

	requester := clerk()
	res, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:        requester,
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceCustomer,
		ResourceID:       &id,
		OriginalSnapshot: map[string]any{"phone": "1"},
		ProposedSnapshot: map[string]any{"phone": "2"},
	})
	require.NoError(t, err)

	_, _, err = f.service.Approve(ctx, res.Request.ID, services.ReviewParams{Reviewer: requester})
	require.ErrorIs(t, err, changerequest.ErrSelfReview)

	_, err = f.service.Reject(ctx, res.Request.ID, services.ReviewParams{Reviewer: requester})
	require.ErrorIs(t, err, changerequest.ErrSelfReview)
}

func TestApprove_ExecutionFailureKeepsApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := "gone"
	f.executor.state[id] = map[string]any{"phone": "1"}

	res, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:        clerk(),
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceCustomer,
		ResourceID:       &id,
		OriginalSnapshot: map[string]any{"phone": "1"},
		ProposedSnapshot: map[string]any{"phone": "2"},
	})
	require.NoError(t, err)

	// resource vanishes while review is pending
	delete(f.executor.state, id)

	reviewed, _, err := f.service.Approve(ctx, res.Request.ID, services.ReviewParams{Reviewer: manager()})
	require.Error(t, err)

	var execErr *services.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, res.Request.ID, execErr.RequestID)
	require.Equal(t, changerequest.StatusApproved, reviewed.Status)

	stored, err := f.service.Get(ctx, res.Request.ID)
	require.NoError(t, err)
	require.Equal(t, changerequest.StatusApproved, stored.Status)
}

// verdictObservingExecutor records the stored request status at the moment
// the mutation runs, then fails. The verdict must already be persisted so
// an execution failure cannot rewind it.
type verdictObservingExecutor struct {
	*recordingExecutor
	repo      *memoryRepository
	requestID uuid.UUID
	observed  []changerequest.Status
}

func (e *verdictObservingExecutor) Update(ctx context.Context, resourceID string, changes map[string]any) (map[string]any, error) {
	if req, err := e.repo.GetByID(ctx, e.requestID); err == nil {
		e.observed = append(e.observed, req.Status)
	}
	return nil, errors.New("storage offline")
}

func TestApprove_VerdictPersistedBeforeExecution(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	executor := &verdictObservingExecutor{recordingExecutor: newRecordingExecutor(), repo: repo}
	registry := services.NewExecutorRegistry()
	registry.Register(changerequest.ResourceCustomer, executor)

	svc := services.NewApprovalService(
		repo,
		services.NewReviewPolicy(),
		registry,
		nil,
		nil,
		eventbus.NewEventPublisher(logrus.New()),
	)

	id := "c1"
	executor.state[id] = map[string]any{"phone": "1"}
	res, err := svc.Submit(ctx, services.SubmitParams{
		Requester:        clerk(),
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceCustomer,
		ResourceID:       &id,
		OriginalSnapshot: map[string]any{"phone": "1"},
		ProposedSnapshot: map[string]any{"phone": "2"},
	})
	require.NoError(t, err)
	executor.requestID = res.Request.ID

	_, _, err = svc.Approve(ctx, res.Request.ID, services.ReviewParams{Reviewer: manager()})
	var execErr *services.ExecutionError
	require.ErrorAs(t, err, &execErr)

	require.Equal(t, []changerequest.Status{changerequest.StatusApproved}, executor.observed)
	stored, err := repo.GetByID(ctx, res.Request.ID)
	require.NoError(t, err)
	require.Equal(t, changerequest.StatusApproved, stored.Status)
}

func TestSubmit_AttachmentsReconciled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := "c-3"
	f.executor.state[id] = map[string]any{"phone": "1"}

	res, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:        clerk(),
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceCustomer,
		ResourceID:       &id,
		OriginalSnapshot: map[string]any{"phone": "1"},
		ProposedSnapshot: map[string]any{"phone": "1"},
		KeptAttachments:  []attachment.Ref{{Name: "contract.pdf", Locator: "f1"}},
		AddedFiles:       []attachment.RawFile{{Name: "photo.jpg", Data: []byte("abc")}},
	})
	require.NoError(t, err)
	require.False(t, res.Executed)

	refs, ok := res.Request.ProposedChanges[services.AttachmentsField].([]attachment.Ref)
	require.True(t, ok)
	require.Len(t, refs, 2)
	require.Equal(t, "f1", refs[0].Locator)
	require.Equal(t, "stored/photo.jpg", refs[1].Locator)
}

func TestSubmit_AttachmentConflictRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := "c-4"
	f.executor.state[id] = map[string]any{"phone": "1"}

	_, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:          clerk(),
		Action:             changerequest.ActionEdit,
		Resource:           changerequest.ResourceCustomer,
		ResourceID:         &id,
		OriginalSnapshot:   map[string]any{"phone": "1"},
		ProposedSnapshot:   map[string]any{"phone": "2"},
		KeptAttachments:    []attachment.Ref{{Locator: "x"}},
		DeletedAttachments: []attachment.Ref{{Locator: "x"}},
	})
	require.Error(t, err)

	var conflict *attachment.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Submit(ctx, services.SubmitParams{
		Action:   changerequest.ActionCreate,
		Resource: changerequest.ResourceCustomer,
	})
	require.ErrorIs(t, err, services.ErrMissingRequester)

	_, err = f.service.Submit(ctx, services.SubmitParams{
		Requester: clerk(),
		Action:    "rename",
		Resource:  changerequest.ResourceCustomer,
	})
	require.ErrorIs(t, err, services.ErrInvalidAction)

	_, err = f.service.Submit(ctx, services.SubmitParams{
		Requester: clerk(),
		Action:    changerequest.ActionCreate,
		Resource:  changerequest.ResourceCustomer,
	})
	require.ErrorIs(t, err, services.ErrEmptySnapshot)

	_, err = f.service.Submit(ctx, services.SubmitParams{
		Requester:        clerk(),
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceCustomer,
		ProposedSnapshot: map[string]any{"phone": "2"},
	})
	require.ErrorIs(t, err, services.ErrMissingResourceID)
}

func TestSubmit_UnknownResourceGoesToReviewEvenForAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.service.Submit(ctx, services.SubmitParams{
		Requester:        admin(),
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceType("warehouse"),
		ResourceID:       strPtr("w-1"),
		OriginalSnapshot: map[string]any{"city": "Riga"},
		ProposedSnapshot: map[string]any{"city": "Tallinn"},
	})
	require.NoError(t, err)
	require.False(t, res.Executed)
	require.Equal(t, changerequest.StatusPending, res.Request.Status)
}

func TestReviewPolicy_Matrix(t *testing.T) {
	policy := services.NewReviewPolicy()

	require.False(t, policy.RequiresReview(admin(), changerequest.ActionDelete, changerequest.ResourcePayment))
	require.False(t, policy.RequiresReview(manager(), changerequest.ActionEdit, changerequest.ResourcePayment))
	require.True(t, policy.RequiresReview(manager(), changerequest.ActionDelete, changerequest.ResourcePayment))
	require.True(t, policy.RequiresReview(clerk(), changerequest.ActionEdit, changerequest.ResourceCustomer))
	require.True(t, policy.RequiresReview(admin(), changerequest.ActionEdit, changerequest.ResourceType("unknown")))
}
