package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/modules/rental/domain/entities/product"
	"github.com/renterra/backoffice/modules/rental/services"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/middleware"
)

type ProductAPIController struct {
	app       application.Application
	products  *services.ProductService
	approvals *approvalservices.ApprovalService
	basePath  string
}

func NewProductAPIController(app application.Application) application.Controller {
	return &ProductAPIController{
		app:       app,
		products:  app.Service(services.ProductService{}).(*services.ProductService),
		approvals: app.Service(approvalservices.ApprovalService{}).(*approvalservices.ApprovalService),
		basePath:  "/rental/products",
	}
}

func (c *ProductAPIController) Key() string {
	return c.basePath
}

func (c *ProductAPIController) Register(r *mux.Router) {
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

func (c *ProductAPIController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	items, total, err := c.products.GetPaginated(r.Context(), product.FindParams{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("product listing failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}

	out := make([]ProductViewModel, 0, len(items))
	for _, item := range items {
		out = append(out, productToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
		"page":  pagination.Page,
		"limit": pagination.Limit,
	})
}

func (c *ProductAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	entity, err := c.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("product lookup failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, productToViewModel(entity))
}

func (c *ProductAPIController) Create(w http.ResponseWriter, r *http.Request) {
	dto, ok := c.decode(w, r)
	if !ok {
		return
	}
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:           changerequest.ActionCreate,
		Resource:         changerequest.ResourceProduct,
		ProposedSnapshot: dto.ToSnapshot(),
		Reason:           dto.Reason,
	})
}

func (c *ProductAPIController) Update(w http.ResponseWriter, r *http.Request) {
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
		Resource:         changerequest.ResourceProduct,
		ResourceID:       &resourceID,
		ProposedSnapshot: dto.ToSnapshot(),
		Reason:           dto.Reason,
	})
}

func (c *ProductAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	resourceID := id.String()
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:     changerequest.ActionDelete,
		Resource:   changerequest.ResourceProduct,
		ResourceID: &resourceID,
		Reason:     decodeReason(r),
	})
}

func (c *ProductAPIController) decode(w http.ResponseWriter, r *http.Request) (*ProductDTO, bool) {
	var dto ProductDTO
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
