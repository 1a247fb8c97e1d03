package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/modules/rental/domain/entities/cost"
	"github.com/renterra/backoffice/modules/rental/services"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/middleware"
)

type CostAPIController struct {
	app       application.Application
	costs     *services.CostService
	approvals *approvalservices.ApprovalService
	basePath  string
}

func NewCostAPIController(app application.Application) application.Controller {
	return &CostAPIController{
		app:       app,
		costs:     app.Service(services.CostService{}).(*services.CostService),
		approvals: app.Service(approvalservices.ApprovalService{}).(*approvalservices.ApprovalService),
		basePath:  "/rental/costs",
	}
}

func (c *CostAPIController) Key() string {
	return c.basePath
}

func (c *CostAPIController) Register(r *mux.Router) {
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

func (c *CostAPIController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	items, total, err := c.costs.GetPaginated(r.Context(), cost.FindParams{
		Category: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))),
		Limit:    pagination.Limit,
		Offset:   pagination.Offset,
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("cost listing failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}

	out := make([]CostViewModel, 0, len(items))
	for _, item := range items {
		out = append(out, costToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
		"page":  pagination.Page,
		"limit": pagination.Limit,
	})
}

func (c *CostAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	entity, err := c.costs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, cost.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "COST_NOT_FOUND", "cost not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("cost lookup failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, costToViewModel(entity))
}

func (c *CostAPIController) Create(w http.ResponseWriter, r *http.Request) {
	dto, ok := c.decode(w, r)
	if !ok {
		return
	}
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:           changerequest.ActionCreate,
		Resource:         changerequest.ResourceCost,
		ProposedSnapshot: dto.ToSnapshot(),
		Reason:           dto.Reason,
	})
}

func (c *CostAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	dto, ok := c.decode(w, r)
	if !ok {
		return
	}
	resourceID := id.String()
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:           changerequest.ActionEdit,
		Resource:         changerequest.ResourceCost,
		ResourceID:       &resourceID,
		ProposedSnapshot: dto.ToSnapshot(),
		Reason:           dto.Reason,
	})
}

func (c *CostAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	resourceID := id.String()
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:     changerequest.ActionDelete,
		Resource:   changerequest.ResourceCost,
		ResourceID: &resourceID,
		Reason:     decodeReason(r),
	})
}

func (c *CostAPIController) decode(w http.ResponseWriter, r *http.Request) (*CostDTO, bool) {
	var dto CostDTO
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
