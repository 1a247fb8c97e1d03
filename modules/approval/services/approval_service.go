package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	"github.com/renterra/backoffice/modules/approval/domain/diff"
	"github.com/renterra/backoffice/pkg/authz"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/eventbus"
)

var (
	// ErrMissingRequester indicates the submission carries no acting user.
	ErrMissingRequester = errors.New("change request requester is required")
	// ErrInvalidAction indicates an unknown action type.
	ErrInvalidAction = errors.New("change request action must be create, edit or delete")
	// ErrMissingResourceType indicates the submission has no resource tag.
	ErrMissingResourceType = errors.New("change request resource type is required")
	// ErrMissingResourceID indicates an edit/delete without a target.
	ErrMissingResourceID = errors.New("change request resource id is required")
	// ErrEmptySnapshot indicates a create/edit without a proposed state.
	ErrEmptySnapshot = errors.New("change request proposed snapshot is required")
	// ErrMissingReviewer indicates a review without an acting reviewer.
	ErrMissingReviewer = errors.New("change request reviewer is required")
)

// ExecutionError reports a mutation callback failure after approval. The
// review decision stays recorded; execution may be retried by an operator
// without re-running the review.
type ExecutionError struct {
	RequestID uuid.UUID
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("change request %s approved but execution failed: %v", e.RequestID, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// AttachmentsField is the snapshot key that carries attachment collections.
const AttachmentsField = "attachments"

// SubmitParams captures an attempted mutation.
type SubmitParams struct {
	Requester        changerequest.Requester
	Action           changerequest.ActionType
	Resource         changerequest.ResourceType
	ResourceID       *string
	OriginalSnapshot map[string]any
	ProposedSnapshot map[string]any
	Reason           string

	// Attachment handling: kept refs survive, added files get persisted
	// through the uploads collaborator, deleted refs show up as removed
	// in the diff and are cross-checked against the kept list.
	KeptAttachments    []attachment.Ref
	AddedFiles         []attachment.RawFile
	DeletedAttachments []attachment.Ref
}

// SubmitResult tells the caller whether their mutation ran now or waits
// for review.
type SubmitResult struct {
	Executed bool
	Result   map[string]any
	Request  *changerequest.ChangeRequest
}

// ReviewParams captures a reviewer decision.
type ReviewParams struct {
	Reviewer changerequest.Requester
	Comment  string
}

// ChangeRequestCreatedEvent is published when a submission is deferred.
type ChangeRequestCreatedEvent struct {
	Request changerequest.ChangeRequest
}

// ChangeRequestReviewedEvent is published on the terminal transition.
type ChangeRequestReviewedEvent struct {
	PreviousStatus changerequest.Status
	Request        changerequest.ChangeRequest
}

// ApprovalService is the workflow controller: it decides between immediate
// execution and deferred review, owns the change request lifecycle and is
// the only writer of its review fields.
type ApprovalService struct {
	repo      changerequest.Repository
	policy    *ReviewPolicy
	executors *ExecutorRegistry
	persist   attachment.PersistFunc
	guard     *authz.Service
	publisher eventbus.EventBus
}

func NewApprovalService(
	repo changerequest.Repository,
	policy *ReviewPolicy,
	executors *ExecutorRegistry,
	persist attachment.PersistFunc,
	guard *authz.Service,
	publisher eventbus.EventBus,
) *ApprovalService {
	return &ApprovalService{
		repo:      repo,
		policy:    policy,
		executors: executors,
		persist:   persist,
		guard:     guard,
		publisher: publisher,
	}
}

// Executors exposes the registry so resource modules can hook in.
func (s *ApprovalService) Executors() *ExecutorRegistry {
	return s.executors
}

// Submit runs the attempted action through the permission policy and either
// executes it immediately or persists a pending change request. The
// mutation callback is never invoked speculatively: a deferred submission
// leaves the underlying resource untouched until approval.
func (s *ApprovalService) Submit(ctx context.Context, params SubmitParams) (*SubmitResult, error) {
	if err := validateSubmit(params); err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, params.Requester, params.Action, params.Resource); err != nil {
		return nil, err
	}

	proposed, err := s.withReconciledAttachments(ctx, params)
	if err != nil {
		return nil, err
	}

	original := params.OriginalSnapshot
	if original == nil {
		original = map[string]any{}
	}
	// Edits diff against the live state; deletes carry their whole payload
	// in the original snapshot so reviewers see what would disappear.
	needsOriginal := params.Action == changerequest.ActionEdit || params.Action == changerequest.ActionDelete
	if needsOriginal && len(original) == 0 {
		original, err = s.currentSnapshot(ctx, params.Resource, *params.ResourceID)
		if err != nil {
			return nil, err
		}
	}

	if !s.policy.RequiresReview(params.Requester, params.Action, params.Resource) {
		result, err := s.execute(ctx, params.Action, params.Resource, params.ResourceID, proposedChanges(params.Action, original, proposed))
		if err != nil {
			return nil, err
		}
		return &SubmitResult{Executed: true, Result: result}, nil
	}

	req := &changerequest.ChangeRequest{
		Requester:        params.Requester,
		ActionType:       params.Action,
		ResourceType:     params.Resource,
		ResourceID:       params.ResourceID,
		OriginalSnapshot: original,
		ProposedChanges:  proposedChanges(params.Action, original, proposed),
		Reason:           strings.TrimSpace(params.Reason),
		Status:           changerequest.StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publish(ChangeRequestCreatedEvent{Request: *req})
	return &SubmitResult{Executed: false, Request: req}, nil
}

// Approve transitions a pending request to approved and applies the
// captured change-set onto the resource's current state. The executor is
// re-resolved from the resource type here — approval may happen days after
// submission, in a different process.
func (s *ApprovalService) Approve(ctx context.Context, id uuid.UUID, params ReviewParams) (*changerequest.ChangeRequest, map[string]any, error) {
	req, err := s.review(ctx, id, params, changerequest.StatusApproved)
	if err != nil {
		return nil, nil, err
	}

	result, execErr := s.execute(ctx, req.ActionType, req.ResourceType, req.ResourceID, req.ProposedChanges)
	if execErr != nil {
		// The decision stands; only the application failed.
		return req, nil, &ExecutionError{RequestID: req.ID, Err: execErr}
	}
	return req, result, nil
}

// Reject transitions a pending request to rejected. The mutation callback
// is never invoked.
func (s *ApprovalService) Reject(ctx context.Context, id uuid.UUID, params ReviewParams) (*changerequest.ChangeRequest, error) {
	return s.review(ctx, id, params, changerequest.StatusRejected)
}

func (s *ApprovalService) Get(ctx context.Context, id uuid.UUID) (*changerequest.ChangeRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ApprovalService) List(ctx context.Context, params changerequest.FindParams) ([]changerequest.ChangeRequest, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *ApprovalService) review(
	ctx context.Context,
	id uuid.UUID,
	params ReviewParams,
	target changerequest.Status,
) (*changerequest.ChangeRequest, error) {
	if params.Reviewer.ID == uuid.Nil {
		return nil, ErrMissingReviewer
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Terminal() {
		return nil, changerequest.ErrAlreadyReviewed
	}
	if req.Requester.ID == params.Reviewer.ID {
		return nil, changerequest.ErrSelfReview
	}

	reviewParams := changerequest.ReviewParams{
		Status:     target,
		ReviewedBy: params.Reviewer.ID,
		ReviewedAt: time.Now().UTC(),
	}
	if comment := strings.TrimSpace(params.Comment); comment != "" {
		reviewParams.Comment = &comment
	}
	// The verdict commits on its own so a later execution failure cannot
	// roll back the recorded decision.
	err = s.ownTx(ctx, func(txCtx context.Context) error {
		return s.repo.Review(txCtx, id, reviewParams)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ChangeRequestReviewedEvent{
		PreviousStatus: changerequest.StatusPending,
		Request:        *updated,
	})
	return updated, nil
}

func (s *ApprovalService) execute(
	ctx context.Context,
	action changerequest.ActionType,
	resource changerequest.ResourceType,
	resourceID *string,
	changes map[string]any,
) (map[string]any, error) {
	executor, err := s.executors.Resolve(resource)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	err = s.ownTx(ctx, func(txCtx context.Context) error {
		var execErr error
		switch action {
		case changerequest.ActionCreate:
			result, execErr = executor.Create(txCtx, changes)
		case changerequest.ActionEdit:
			result, execErr = executor.Update(txCtx, *resourceID, changes)
		case changerequest.ActionDelete:
			execErr = executor.Delete(txCtx, *resourceID)
		default:
			execErr = ErrInvalidAction
		}
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ownTx runs fn in its own committed transaction when a connection pool is
// available, surfacing the commit error to the caller. Without a pool fn
// runs against whatever the context already carries.
func (s *ApprovalService) ownTx(ctx context.Context, fn func(context.Context) error) error {
	if _, err := composables.UsePool(ctx); err != nil {
		return fn(ctx)
	}
	return composables.InTx(ctx, fn)
}

func (s *ApprovalService) currentSnapshot(ctx context.Context, resource changerequest.ResourceType, resourceID string) (map[string]any, error) {
	executor, err := s.executors.Resolve(resource)
	if err != nil {
		return nil, err
	}
	return executor.Snapshot(ctx, resourceID)
}

func (s *ApprovalService) withReconciledAttachments(ctx context.Context, params SubmitParams) (map[string]any, error) {
	proposed := params.ProposedSnapshot
	if proposed == nil {
		proposed = map[string]any{}
	}
	if len(params.KeptAttachments) == 0 && len(params.AddedFiles) == 0 && len(params.DeletedAttachments) == 0 {
		return proposed, nil
	}

	final, err := attachment.Reconcile(ctx, params.KeptAttachments, params.AddedFiles, params.DeletedAttachments, s.persist)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(proposed)+1)
	for k, v := range proposed {
		out[k] = v
	}
	out[AttachmentsField] = final
	return out, nil
}

func (s *ApprovalService) authorize(
	ctx context.Context,
	requester changerequest.Requester,
	action changerequest.ActionType,
	resource changerequest.ResourceType,
) error {
	if s.guard == nil {
		return nil
	}
	return s.guard.Authorize(ctx, authz.Request{
		Subject: "role:" + requester.Role,
		Object:  objectName(resource),
		Action:  string(action),
	})
}

func objectName(resource changerequest.ResourceType) string {
	return "rental." + string(resource) + "s"
}

func (s *ApprovalService) publish(event any) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

// proposedChanges picks the persisted change payload per action: a sparse
// diff for edits, the full snapshot for creates, nothing for deletes (the
// delete payload is the original snapshot).
func proposedChanges(action changerequest.ActionType, original, proposed map[string]any) map[string]any {
	switch action {
	case changerequest.ActionEdit:
		return diff.ChangeSet(original, proposed)
	case changerequest.ActionCreate:
		return proposed
	default:
		return map[string]any{}
	}
}

func validateSubmit(params SubmitParams) error {
	if params.Requester.ID == uuid.Nil {
		return ErrMissingRequester
	}
	if !params.Action.Valid() {
		return ErrInvalidAction
	}
	if strings.TrimSpace(string(params.Resource)) == "" {
		return ErrMissingResourceType
	}
	switch params.Action {
	case changerequest.ActionCreate:
		if len(params.ProposedSnapshot) == 0 {
			return ErrEmptySnapshot
		}
	case changerequest.ActionEdit:
		if params.ResourceID == nil || strings.TrimSpace(*params.ResourceID) == "" {
			return ErrMissingResourceID
		}
		if len(params.ProposedSnapshot) == 0 {
			return ErrEmptySnapshot
		}
	case changerequest.ActionDelete:
		if params.ResourceID == nil || strings.TrimSpace(*params.ResourceID) == "" {
			return ErrMissingResourceID
		}
	}
	return nil
}
