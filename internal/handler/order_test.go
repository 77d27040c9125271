package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/costumier/rental-engine/internal/domain"
	"github.com/costumier/rental-engine/internal/service"
	"github.com/costumier/rental-engine/tests/mocks"
)

func newTestRouter(orderRepo *mocks.MockOrderRepository, paymentRepo *mocks.MockPaymentRepository) *mux.Router {
	svc := service.NewOrderService(orderRepo, paymentRepo, &mocks.MockNotificationRepository{}, nil, nil)
	h := NewOrderHandler(svc)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	api.HandleFunc("/orders/{orderId}", h.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{orderId}/eligibility", h.GetEligibility).Methods("GET")
	api.HandleFunc("/orders/{orderId}/cancel", h.CancelOrder).Methods("POST")
	api.HandleFunc("/orders/{orderId}/outstanding", h.GetOutstanding).Methods("GET")

	return router
}

func confirmedOrder(orderID string, daysOut int) *domain.Order {
	start := time.Now().AddDate(0, 0, daysOut)
	return &domain.Order{
		OrderID:     orderID,
		CustomerID:  "CUST-1",
		Status:      domain.OrderStatusConfirmed,
		RentalStart: start,
		RentalEnd:   start.AddDate(0, 0, 3),
		TotalAmount: decimal.NewFromFloat(200.00),
	}
}

func TestGetOrder_ReturnsEligibility(t *testing.T) {
	orderRepo := &mocks.MockOrderRepository{}
	orderRepo.On("GetByOrderID", mock.Anything, "ORD-1").Return(confirmedOrder("ORD-1", 30), nil)
	router := newTestRouter(orderRepo, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Eligibility struct {
				CanModify bool `json:"can_modify"`
				CanCancel bool `json:"can_cancel"`
			} `json:"eligibility"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Data.Eligibility.CanModify)
	assert.True(t, body.Data.Eligibility.CanCancel)
}

func TestGetOrder_NotFound(t *testing.T) {
	orderRepo := &mocks.MockOrderRepository{}
	orderRepo.On("GetByOrderID", mock.Anything, "ORD-404").Return(nil, sql.ErrNoRows)
	router := newTestRouter(orderRepo, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelOrder_WindowClosedIs422(t *testing.T) {
	orderRepo := &mocks.MockOrderRepository{}
	orderRepo.On("GetByOrderID", mock.Anything, "ORD-2").Return(confirmedOrder("ORD-2", 10), nil)
	router := newTestRouter(orderRepo, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-2/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Code string `json:"code"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CANCEL_WINDOW_CLOSED", body.Code)
}

func TestCancelOrder_Success(t *testing.T) {
	orderRepo := &mocks.MockOrderRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	orderRepo.On("GetByOrderID", mock.Anything, "ORD-3").Return(confirmedOrder("ORD-3", 35), nil)
	orderRepo.On("UpdateStatusIf", mock.Anything, "ORD-3", domain.OrderStatusConfirmed, domain.OrderStatusCancelled).Return(true, nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	router := newTestRouter(orderRepo, paymentRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-3/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Refund struct {
				RefundPercentage int `json:"refund_percentage"`
			} `json:"refund"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 100, body.Data.Refund.RefundPercentage)
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	router := newTestRouter(&mocks.MockOrderRepository{}, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_MissingFields(t *testing.T) {
	router := newTestRouter(&mocks.MockOrderRepository{}, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"order_id":"ORD-4"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOutstanding_AwaitingDeposit(t *testing.T) {
	orderRepo := &mocks.MockOrderRepository{}
	orderRepo.On("GetByOrderID", mock.Anything, "ORD-5").Return(confirmedOrder("ORD-5", 30), nil)
	router := newTestRouter(orderRepo, &mocks.MockPaymentRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-5/outstanding", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			State       string `json:"state"`
			Outstanding struct {
				Amount string `json:"amount"`
			} `json:"outstanding"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.BalanceAwaitingDeposit, body.Data.State)
	assert.Equal(t, "60", body.Data.Outstanding.Amount)
}
