package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/costumier/rental-engine/internal/domain"
	"github.com/costumier/rental-engine/internal/service"
	customError "github.com/costumier/rental-engine/pkg/errors"
	"github.com/costumier/rental-engine/pkg/response"
)

type OrderHandler struct {
	service   *service.OrderService
	validator *validator.Validate
}

func NewOrderHandler(service *service.OrderService) *OrderHandler {
	return &OrderHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	order, schedule, err := h.service.CreateOrder(r.Context(), &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Created(w, &domain.CreateOrderResponse{Order: order, Schedule: schedule})
}

// GetOrder handles GET /api/v1/orders/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	resp, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, resp)
}

// GetEligibility handles GET /api/v1/orders/{orderId}/eligibility
func (h *OrderHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	eligibility, err := h.service.GetEligibility(r.Context(), orderID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, &domain.EligibilityResponse{OrderID: orderID, Eligibility: eligibility})
}

// GetRefundQuote handles GET /api/v1/orders/{orderId}/refund-quote
func (h *OrderHandler) GetRefundQuote(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	quote, err := h.service.GetRefundQuote(r.Context(), orderID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, quote)
}

// ModifyOrder handles PATCH /api/v1/orders/{orderId}
func (h *OrderHandler) ModifyOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	var request domain.ModifyOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if request.RentalEnd == nil && request.TotalAmount == nil {
		response.BadRequest(w, "Nothing to modify", nil)
		return
	}

	order, err := h.service.ModifyOrder(r.Context(), orderID, &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, order)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	order, refund, err := h.service.CancelOrder(r.Context(), orderID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, &domain.CancelOrderResponse{Order: order, Refund: refund})
}

// RescheduleOrder handles POST /api/v1/orders/{orderId}/reschedule
func (h *OrderHandler) RescheduleOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	var request domain.RescheduleOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	order, err := h.service.RescheduleOrder(r.Context(), orderID, &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, order)
}

// GetSchedule handles GET /api/v1/orders/{orderId}/schedule
func (h *OrderHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	schedule, err := h.service.GetSchedule(r.Context(), orderID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, &domain.ScheduleResponse{OrderID: orderID, Schedule: schedule})
}

// GetOutstanding handles GET /api/v1/orders/{orderId}/outstanding
func (h *OrderHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	outstanding, err := h.service.GetOutstanding(r.Context(), orderID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, outstanding)
}

// RecordPayment handles POST /api/v1/orders/{orderId}/payments
// (the payment gateway webhook).
func (h *OrderHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	var request domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), orderID, &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Created(w, payment)
}

// respondError maps business error codes to HTTP statuses. Closed windows
// come back as 422 so clients can distinguish "denied by policy" from
// malformed input.
func (h *OrderHandler) respondError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "Unexpected error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeOrderNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeOrderAlreadyExists, customError.ErrCodePaymentAlreadyRecorded:
		response.BusinessError(w, http.StatusConflict, businessErr.Code, businessErr.Message)
	case customError.ErrCodeInvalidRentalDates, customError.ErrCodePaymentAmountMismatch:
		response.BusinessError(w, http.StatusBadRequest, businessErr.Code, businessErr.Message)
	case customError.ErrCodeModifyWindowClosed,
		customError.ErrCodeCancelWindowClosed,
		customError.ErrCodeRescheduleWindowClosed:
		response.BusinessError(w, http.StatusUnprocessableEntity, businessErr.Code, businessErr.Message)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
