package controllers

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/renterra/backoffice/modules/approval/domain/attachment"
	"github.com/renterra/backoffice/pkg/constants"
	"github.com/renterra/backoffice/pkg/serrors"
)

type AttachmentRefDTO struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Locator   string `json:"locator" validate:"required"`
}

type AddedFileDTO struct {
	Name string `json:"name" validate:"required"`
	Data string `json:"data" validate:"required"`
}

// AttachmentChangesDTO rides along on mutations of resources that carry
// documents.
type AttachmentChangesDTO struct {
	KeptAttachments    []AttachmentRefDTO `json:"kept_attachments,omitempty"`
	AddedFiles         []AddedFileDTO     `json:"added_files,omitempty"`
	DeletedAttachments []AttachmentRefDTO `json:"deleted_attachments,omitempty"`
}

func (d AttachmentChangesDTO) KeptRefs() []attachment.Ref {
	return toRefs(d.KeptAttachments)
}

func (d AttachmentChangesDTO) DeletedRefs() []attachment.Ref {
	return toRefs(d.DeletedAttachments)
}

func (d AttachmentChangesDTO) RawFiles() ([]attachment.RawFile, error) {
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

func toRefs(dtos []AttachmentRefDTO) []attachment.Ref {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]attachment.Ref, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, attachment.Ref{Name: d.Name, SizeBytes: d.SizeBytes, Locator: d.Locator})
	}
	return out
}

func validateDTO(dto any) (map[string]string, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return map[string]string{}, true
	}
	validatorErrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": errs.Error()}, false
	}
	return serrors.ProcessValidatorErrors(validatorErrs, nil).Messages(), false
}

func firstMessage(fields map[string]string) string {
	for _, v := range fields {
		return v
	}
	return "validation failed"
}

type CustomerDTO struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
	Reason  string `json:"reason,omitempty"`

	AttachmentChangesDTO
}

func (d *CustomerDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d *CustomerDTO) ToSnapshot() map[string]any {
	return map[string]any{
		"name":    d.Name,
		"email":   d.Email,
		"phone":   strings.TrimSpace(d.Phone),
		"address": strings.TrimSpace(d.Address),
		"notes":   strings.TrimSpace(d.Notes),
	}
}

type ProductDTO struct {
	Name        string `json:"name" validate:"required"`
	SKU         string `json:"sku" validate:"required"`
	Description string `json:"description,omitempty"`
	DailyRate   string `json:"daily_rate" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	Reason      string `json:"reason,omitempty"`
}

func (d *ProductDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.SKU = strings.ToUpper(strings.TrimSpace(d.SKU))
}

func (d *ProductDTO) ToSnapshot() map[string]any {
	return map[string]any{
		"name":        d.Name,
		"sku":         d.SKU,
		"description": strings.TrimSpace(d.Description),
		"daily_rate":  strings.TrimSpace(d.DailyRate),
		"quantity":    d.Quantity,
	}
}

type ReservationDTO struct {
	CustomerID string   `json:"customer_id" validate:"required,uuid"`
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,uuid"`
	StartsAt   string   `json:"starts_at" validate:"required"`
	EndsAt     string   `json:"ends_at" validate:"required"`
	Status     string   `json:"status" validate:"omitempty,oneof=booked active returned cancelled"`
	Notes      string   `json:"notes,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

func (d *ReservationDTO) ToSnapshot() map[string]any {
	productIDs := make([]any, 0, len(d.ProductIDs))
	for _, id := range d.ProductIDs {
		productIDs = append(productIDs, id)
	}
	m := map[string]any{
		"customer_id": d.CustomerID,
		"product_ids": productIDs,
		"starts_at":   d.StartsAt,
		"ends_at":     d.EndsAt,
		"notes":       strings.TrimSpace(d.Notes),
	}
	if d.Status != "" {
		m["status"] = d.Status
	}
	return m
}

type PaymentDTO struct {
	CustomerID    string  `json:"customer_id" validate:"required,uuid"`
	ReservationID *string `json:"reservation_id,omitempty" validate:"omitempty,uuid"`
	Amount        string  `json:"amount" validate:"required"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	Method        string  `json:"method" validate:"required,oneof=cash card transfer"`
	PaidAt        string  `json:"paid_at" validate:"required"`
	Notes         string  `json:"notes,omitempty"`
	Reason        string  `json:"reason,omitempty"`

	AttachmentChangesDTO
}

func (d *PaymentDTO) ToSnapshot() map[string]any {
	m := map[string]any{
		"customer_id": d.CustomerID,
		"amount":      strings.TrimSpace(d.Amount),
		"currency":    strings.ToUpper(strings.TrimSpace(d.Currency)),
		"method":      d.Method,
		"paid_at":     d.PaidAt,
		"notes":       strings.TrimSpace(d.Notes),
	}
	if d.ReservationID != nil {
		m["reservation_id"] = *d.ReservationID
	}
	return m
}

type CostDTO struct {
	Name       string `json:"name" validate:"required"`
	Category   string `json:"category,omitempty"`
	Amount     string `json:"amount" validate:"required"`
	IncurredAt string `json:"incurred_at" validate:"required"`
	Notes      string `json:"notes,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (d *CostDTO) ToSnapshot() map[string]any {
	return map[string]any{
		"name":        strings.TrimSpace(d.Name),
		"category":    strings.ToLower(strings.TrimSpace(d.Category)),
		"amount":      strings.TrimSpace(d.Amount),
		"incurred_at": d.IncurredAt,
		"notes":       strings.TrimSpace(d.Notes),
	}
}
