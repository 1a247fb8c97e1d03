package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/modules/rental/domain/entities/customer"
	"github.com/renterra/backoffice/modules/rental/services"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/middleware"
)

type CustomerAPIController struct {
	app       application.Application
	customers *services.CustomerService
	approvals *approvalservices.ApprovalService
	basePath  string
}

func NewCustomerAPIController(app application.Application) application.Controller {
	return &CustomerAPIController{
		app:       app,
		customers: app.Service(services.CustomerService{}).(*services.CustomerService),
		approvals: app.Service(approvalservices.ApprovalService{}).(*approvalservices.ApprovalService),
		basePath:  "/rental/customers",
	}
}

func (c *CustomerAPIController) Key() string {
	return c.basePath
}

func (c *CustomerAPIController) Register(r *mux.Router) {
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

func (c *CustomerAPIController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	items, total, err := c.customers.GetPaginated(r.Context(), customer.FindParams{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("customer listing failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}

	out := make([]CustomerViewModel, 0, len(items))
	for _, item := range items {
		out = append(out, customerToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
		"page":  pagination.Page,
		"limit": pagination.Limit,
	})
}

func (c *CustomerAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	entity, err := c.customers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "customer not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("customer lookup failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, customerToViewModel(entity))
}

func (c *CustomerAPIController) Create(w http.ResponseWriter, r *http.Request) {
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
		Resource:           changerequest.ResourceCustomer,
		ProposedSnapshot:   dto.ToSnapshot(),
		Reason:             dto.Reason,
		KeptAttachments:    dto.KeptRefs(),
		AddedFiles:         files,
		DeletedAttachments: dto.DeletedRefs(),
	})
}

func (c *CustomerAPIController) Update(w http.ResponseWriter, r *http.Request) {
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
		Resource:           changerequest.ResourceCustomer,
		ResourceID:         &resourceID,
		ProposedSnapshot:   dto.ToSnapshot(),
		Reason:             dto.Reason,
		KeptAttachments:    dto.KeptRefs(),
		AddedFiles:         files,
		DeletedAttachments: dto.DeletedRefs(),
	})
}

func (c *CustomerAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	resourceID := id.String()
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:     changerequest.ActionDelete,
		Resource:   changerequest.ResourceCustomer,
		ResourceID: &resourceID,
		Reason:     decodeReason(r),
	})
}

func (c *CustomerAPIController) decode(w http.ResponseWriter, r *http.Request) (*CustomerDTO, bool) {
	var dto CustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "RENTAL_INVALID_JSON", "invalid json")
		return nil, false
	}
	dto.Normalize()
	if fields, ok := validateDTO(&dto); !ok {
		writeAPIError(w, r, http.StatusBadRequest, "RENTAL_VALIDATION_FAILED", firstMessage(fields))
		return nil, false
	}
	return &dto, true
}

func decodeReason(r *http.Request) string {
	var body struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	return strings.TrimSpace(body.Reason)
}
