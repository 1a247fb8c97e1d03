package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
	approvalservices "github.com/renterra/backoffice/modules/approval/services"
	"github.com/renterra/backoffice/modules/rental/domain/entities/reservation"
	"github.com/renterra/backoffice/modules/rental/services"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/middleware"
)

type ReservationAPIController struct {
	app          application.Application
	reservations *services.ReservationService
	approvals    *approvalservices.ApprovalService
	basePath     string
}

func NewReservationAPIController(app application.Application) application.Controller {
	return &ReservationAPIController{
		app:          app,
		reservations: app.Service(services.ReservationService{}).(*services.ReservationService),
		approvals:    app.Service(approvalservices.ApprovalService{}).(*approvalservices.ApprovalService),
		basePath:     "/rental/reservations",
	}
}

func (c *ReservationAPIController) Key() string {
	return c.basePath
}

func (c *ReservationAPIController) Register(r *mux.Router) {
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

func (c *ReservationAPIController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	params := reservation.FindParams{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "RENTAL_INVALID_ID", "invalid customer id")
			return
		}
		params.CustomerID = &customerID
	}
	for _, s := range splitQuery(r.URL.Query().Get("status")) {
		params.Statuses = append(params.Statuses, reservation.Status(s))
	}

	items, total, err := c.reservations.GetPaginated(r.Context(), params)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("reservation listing failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}

	out := make([]ReservationViewModel, 0, len(items))
	for _, item := range items {
		out = append(out, reservationToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
		"page":  pagination.Page,
		"limit": pagination.Limit,
	})
}

func (c *ReservationAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	entity, err := c.reservations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, reservation.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "RESERVATION_NOT_FOUND", "reservation not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("reservation lookup failed")
		writeAPIError(w, r, http.StatusInternalServerError, "RENTAL_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, reservationToViewModel(entity))
}

func (c *ReservationAPIController) Create(w http.ResponseWriter, r *http.Request) {
	dto, ok := c.decode(w, r)
	if !ok {
		return
	}
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:           changerequest.ActionCreate,
		Resource:         changerequest.ResourceReservation,
		ProposedSnapshot: dto.ToSnapshot(),
		Reason:           dto.Reason,
	})
}

func (c *ReservationAPIController) Update(w http.ResponseWriter, r *http.Request) {
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
		Resource:         changerequest.ResourceReservation,
		ResourceID:       &resourceID,
		ProposedSnapshot: dto.ToSnapshot(),
		Reason:           dto.Reason,
	})
}

func (c *ReservationAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	resourceID := id.String()
	submitMutation(w, r, c.approvals, approvalservices.SubmitParams{
		Action:     changerequest.ActionDelete,
		Resource:   changerequest.ResourceReservation,
		ResourceID: &resourceID,
		Reason:     decodeReason(r),
	})
}

func (c *ReservationAPIController) decode(w http.ResponseWriter, r *http.Request) (*ReservationDTO, bool) {
	var dto ReservationDTO
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
