package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/modules/rental/domain/entities/payment"
	"github.com/renterra/backoffice/modules/rental/services"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/middleware"
)

type PaymentAPIController struct {
	app       application.Application
	payments  *services.PaymentService
	approvals *approvalservices.ApprovalService
	basePath  string
}

func NewPaymentAPIController(app application.Application) application.Controller {
	return &PaymentAPIController{
		app:       app,
		payments:  app.Service(services.PaymentService{}).(*services.PaymentService),
		approvals: app.Service(approvalservices.ApprovalService{}).(*approvalservices.ApprovalService),
		basePath:  "/rental/payments",
	}
}

func (c *PaymentAPIController) Key() string {
	return c.basePath
}

func (c *PaymentAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ProvideActor())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.ProvideActor())
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *PaymentAPIController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	params := payment.FindParams{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "RENTAL_INVALID_ID", "invalid customer_id filter")
			return
		}
		params.CustomerID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("reservation_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "RENTAL_INVALID_ID", "invalid reservation_id filter")
			return
		}
		params.ReservationID = &id
	}

	items, total, err := c.payments.GetPaginated(r.Context(), params)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("payment listing failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}

	out := make([]PaymentViewModel, 0, len(items))
	for _, item := range items {
		out = append(out, paymentToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
		"page":  pagination.Page,
		"limit": pagination.Limit,
	})
}

func (c *PaymentAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	entity, err := c.payments.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "PAYMENT_NOT_FOUND", "payment not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("payment lookup failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, paymentToViewModel(entity))
}

func (c *PaymentAPIController) Create(w http.ResponseWriter, r *http.Request) {
	dto, ok := c.decode(w, r)
	if !ok {
		return
	}
	files, err := dto.RawFiles()
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "RENTAL_INVALID_FILE", err.Error())
		return
	}

	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:             changerequest.ActionCreate,
		Resource:           changerequest.ResourcePayment,
		ProposedSnapshot:   dto.ToSnapshot(),
		Reason:             dto.Reason,
		KeptAttachments:    dto.KeptRefs(),
		AddedFiles:         files,
		DeletedAttachments: dto.DeletedRefs(),
	})
}

func (c *PaymentAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	dto, ok := c.decode(w, r)
	if !ok {
		return
	}
	files, err := dto.RawFiles()
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "RENTAL_INVALID_FILE", err.Error())
		return
	}

	resourceID := id.String()
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:             changerequest.ActionEdit,
		Resource:           changerequest.ResourcePayment,
		ResourceID:         &resourceID,
		ProposedSnapshot:   dto.ToSnapshot(),
		Reason:             dto.Reason,
		KeptAttachments:    dto.KeptRefs(),
		AddedFiles:         files,
		DeletedAttachments: dto.DeletedRefs(),
	})
}

func (c *PaymentAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	resourceID := id.String()
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:     changerequest.ActionDelete,
		Resource:   changerequest.ResourcePayment,
		ResourceID: &resourceID,
		Reason:     decodeReason(r),
	})
}

func (c *PaymentAPIController) decode(w http.ResponseWriter, r *http.Request) (*PaymentDTO, bool) {
	var dto PaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "RENTAL_INVALID_JSON", "invalid json")
		return nil, false
	}
	if fields, ok := validateDTO(&dto); !ok {
		writeAPIError(w, r, http.StatusBadRequest, "RENTAL_VALIDATION_FAILED", firstMessage(fields))
		return nil, false
	}
	return &dto, true
}
