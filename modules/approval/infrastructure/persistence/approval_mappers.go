package persistence

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	"github.com/renterra/backoffice/modules/approval/infrastructure/persistence/models"
)

func toDBChangeRequest(req *changerequest.ChangeRequest) (*models.ChangeRequest, error) {
	original, err := json.Marshal(req.OriginalSnapshot)
	if err != nil {
		return nil, errors.Wrap(err, "marshal original snapshot")
	}
	changes, err := json.Marshal(req.ProposedChanges)
	if err != nil {
		return nil, errors.Wrap(err, "marshal proposed changes")
	}

	row := &models.ChangeRequest{
		ID:               req.ID.String(),
		RequesterID:      req.Requester.ID.String(),
		RequesterName:    req.Requester.Name,
		RequesterRole:    req.Requester.Role,
		ActionType:       string(req.ActionType),
		ResourceType:     string(req.ResourceType),
		ResourceID:       req.ResourceID,
		OriginalSnapshot: original,
		ProposedChanges:  changes,
		Reason:           req.Reason,
		Status:           string(req.Status),
		ReviewedAt:       req.ReviewedAt,
		ReviewComment:    req.ReviewComment,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
	if req.ReviewedBy != nil {
		s := req.ReviewedBy.String()
		row.ReviewedBy = &s
	}
	return row, nil
}

func toDomainChangeRequest(row *models.ChangeRequest) (*changerequest.ChangeRequest, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse change request id")
	}
	requesterID, err := uuid.Parse(row.RequesterID)
	if err != nil {
		return nil, errors.Wrap(err, "parse requester id")
	}

	var original map[string]any
	if len(row.OriginalSnapshot) > 0 {
		if err := json.Unmarshal(row.OriginalSnapshot, &original); err != nil {
			return nil, errors.Wrap(err, "unmarshal original snapshot")
		}
	}
	var changes map[string]any
	if len(row.ProposedChanges) > 0 {
		if err := json.Unmarshal(row.ProposedChanges, &changes); err != nil {
			return nil, errors.Wrap(err, "unmarshal proposed changes")
		}
	}

	req := &changerequest.ChangeRequest{
		ID: id,
		Requester: changerequest.Requester{
			ID:   requesterID,
			Name: row.RequesterName,
			Role: row.RequesterRole,
		},
		ActionType:       changerequest.ActionType(row.ActionType),
		ResourceType:     changerequest.ResourceType(row.ResourceType),
		ResourceID:       row.ResourceID,
		OriginalSnapshot: original,
		ProposedChanges:  changes,
		Reason:           row.Reason,
		Status:           changerequest.Status(row.Status),
		ReviewedAt:       row.ReviewedAt,
		ReviewComment:    row.ReviewComment,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.ReviewedBy != nil {
		reviewer, err := uuid.Parse(*row.ReviewedBy)
		if err != nil {
			return nil, errors.Wrap(err, "parse reviewer id")
		}
		req.ReviewedBy = &reviewer
	}
	return req, nil
}
