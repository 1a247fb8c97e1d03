package controllers

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	"github.com/renterra/backoffice/pkg/constants"
	"github.com/renterra/backoffice/pkg/serrors"
)

type AttachmentRefDTO struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Locator   string `json:"locator" validate:"required"`
}

// AddedFileDTO carries a new attachment inline; Data is base64-encoded.
type AddedFileDTO struct {
	Name string `json:"name" validate:"required"`
	Data string `json:"data" validate:"required"`
}

type SubmitChangeRequestDTO struct {
	Action             string             `json:"action" validate:"required,oneof=create edit delete"`
	ResourceType       string             `json:"resource_type" validate:"required"`
	ResourceID         *string            `json:"resource_id,omitempty"`
	OriginalSnapshot   map[string]any     `json:"original_snapshot,omitempty"`
	ProposedSnapshot   map[string]any     `json:"proposed_snapshot,omitempty"`
	Reason             string             `json:"reason,omitempty"`
	KeptAttachments    []AttachmentRefDTO `json:"kept_attachments,omitempty"`
	AddedFiles         []AddedFileDTO     `json:"added_files,omitempty"`
	DeletedAttachments []AttachmentRefDTO `json:"deleted_attachments,omitempty"`
}

func (d *SubmitChangeRequestDTO) Normalize() {
	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	d.ResourceType = strings.ToLower(strings.TrimSpace(d.ResourceType))
	d.Reason = strings.TrimSpace(d.Reason)
}

func (d *SubmitChangeRequestDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}
	validatorErrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": errs.Error()}, false
	}
	return serrors.ProcessValidatorErrors(validatorErrs, nil).Messages(), false
}

func (d *SubmitChangeRequestDTO) KeptRefs() []attachment.Ref {
	return toRefs(d.KeptAttachments)
}

func (d *SubmitChangeRequestDTO) DeletedRefs() []attachment.Ref {
	return toRefs(d.DeletedAttachments)
}

func (d *SubmitChangeRequestDTO) RawFiles() ([]attachment.RawFile, error) {
	if len(d.AddedFiles) == 0 {
		return nil, nil
	}
	out := make([]attachment.RawFile, 0, len(d.AddedFiles))
	for _, f := range d.AddedFiles {
		data, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return nil, fmt.Errorf("decode file %q: %w", f.Name, err)
		}
		out = append(out, attachment.RawFile{Name: f.Name, Data: data})
	}
	return out, nil
}

type ReviewDTO struct {
	Comment string `json:"comment,omitempty"`
}

type ChangeRequestViewModel struct {
	ID               uuid.UUID          `json:"id"`
	RequesterID      uuid.UUID          `json:"requester_id"`
	RequesterName    string             `json:"requester_name"`
	RequesterRole    string             `json:"requester_role"`
	Action           string             `json:"action"`
	ResourceType     string             `json:"resource_type"`
	ResourceID       *string            `json:"resource_id,omitempty"`
	OriginalSnapshot map[string]any     `json:"original_snapshot"`
	ProposedChanges  map[string]any     `json:"proposed_changes"`
	Reason           string             `json:"reason,omitempty"`
	Status           string             `json:"status"`
	ReviewedBy       *uuid.UUID         `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time         `json:"reviewed_at,omitempty"`
	ReviewComment    *string            `json:"review_comment,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func toViewModel(req *changerequest.ChangeRequest) ChangeRequestViewModel {
	return ChangeRequestViewModel{
		ID:               req.ID,
		RequesterID:      req.Requester.ID,
		RequesterName:    req.Requester.Name,
		RequesterRole:    req.Requester.Role,
		Action:           string(req.ActionType),
		ResourceType:     string(req.ResourceType),
		ResourceID:       req.ResourceID,
		OriginalSnapshot: req.OriginalSnapshot,
		ProposedChanges:  req.ProposedChanges,
		Reason:           req.Reason,
		Status:           string(req.Status),
		ReviewedBy:       req.ReviewedBy,
		ReviewedAt:       req.ReviewedAt,
		ReviewComment:    req.ReviewComment,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
}

func toRefs(dtos []AttachmentRefDTO) []attachment.Ref {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]attachment.Ref, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, attachment.Ref{
			Name:      d.Name,
			SizeBytes: d.SizeBytes,
			Locator:   d.Locator,
		})
	}
	return out
}
