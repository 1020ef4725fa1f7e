package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/credofin/credit-engine/internal/domain"
	"github.com/credofin/credit-engine/internal/service"
	customError "github.com/credofin/credit-engine/pkg/errors"
	"github.com/credofin/credit-engine/pkg/response"
)

type CreditHandler struct {
	service   *service.CreditService
	validator *validator.Validate
}

func NewCreditHandler(service *service.CreditService) *CreditHandler {
	return &CreditHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateCredit handles POST /api/v1/credits
func (h *CreditHandler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.service.CreateCredit(r.Context(), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, result)
}

// GetSchedule handles GET /api/v1/credits/{creditId}/schedule
func (h *CreditHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	creditID := mux.Vars(r)["creditId"]

	result, err := h.service.GetSchedule(r.Context(), creditID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// AddRate handles POST /api/v1/credits/{creditId}/rates
func (h *CreditHandler) AddRate(w http.ResponseWriter, r *http.Request) {
	creditID := mux.Vars(r)["creditId"]

	var request domain.AddRateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	items, err := h.service.AddRateEntry(r.Context(), creditID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, items)
}

// AddAdjustment handles POST /api/v1/credits/{creditId}/adjustments
func (h *CreditHandler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	creditID := mux.Vars(r)["creditId"]

	var request domain.AddAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	items, err := h.service.AddAdjustment(r.Context(), creditID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, items)
}

// Recalculate handles POST /api/v1/credits/{creditId}/recalculate
func (h *CreditHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	creditID := mux.Vars(r)["creditId"]

	var request domain.RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	items, err := h.service.RecalculateSchedule(r.Context(), creditID, request.FromDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, items)
}

type recordPaymentRequest struct {
	PeriodNumber int             `json:"period_number" validate:"required,gt=0"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
}

// RecordPayment handles POST /api/v1/credits/{creditId}/payments
func (h *CreditHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	creditID := mux.Vars(r)["creditId"]

	var request recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), creditID, request.PeriodNumber, request.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, payment)
}

// GetOutstanding handles GET /api/v1/credits/{creditId}/outstanding
func (h *CreditHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	creditID := mux.Vars(r)["creditId"]

	outstanding, err := h.service.GetOutstanding(r.Context(), creditID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, domain.OutstandingResponse{
		CreditID:    creditID,
		Outstanding: outstanding,
	})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrCreditNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, customError.ErrCreditAlreadyExists):
		response.Error(w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, customError.ErrNoApplicableRate),
		errors.Is(err, customError.ErrInvalidTermOrPrincipal),
		errors.Is(err, customError.ErrInvalidPaymentDay),
		errors.Is(err, customError.ErrRateTimelineUnsorted),
		errors.Is(err, customError.ErrInvalidPaymentHistory):
		response.BadRequest(w, "schedule generation rejected", err)
	default:
		response.InternalServerError(w, "internal error", err)
	}
}
