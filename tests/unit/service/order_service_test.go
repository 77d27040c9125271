package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/costumier/rental-engine/internal/domain"
	orderService "github.com/costumier/rental-engine/internal/service"
	"github.com/costumier/rental-engine/tests/mocks"
)

func orderStartingIn(orderID string, daysOut int, status string) *domain.Order {
	start := time.Now().AddDate(0, 0, daysOut)
	return &domain.Order{
		OrderID:     orderID,
		CustomerID:  "CUST-1",
		Status:      status,
		RentalStart: start,
		RentalEnd:   start.AddDate(0, 0, 3),
		TotalAmount: decimal.NewFromFloat(200.00),
	}
}

func TestCancelOrder(t *testing.T) {
	tests := []struct {
		name           string
		orderID        string
		setupMocks     func(*mocks.MockOrderRepository, *mocks.MockPaymentRepository, string)
		expectedError  bool
		errorContains  string
		validateResult func(*testing.T, *domain.Order, *domain.RefundDecision)
	}{
		{
			name:    "Success - full refund outside the window",
			orderID: "ORD-100",
			setupMocks: func(orderRepo *mocks.MockOrderRepository, paymentRepo *mocks.MockPaymentRepository, orderID string) {
				orderRepo.On("GetByOrderID", mock.Anything, orderID).Return(orderStartingIn(orderID, 35, domain.OrderStatusConfirmed), nil)
				orderRepo.On("UpdateStatusIf", mock.Anything, orderID, domain.OrderStatusConfirmed, domain.OrderStatusCancelled).Return(true, nil)
				paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
					return p.Kind == domain.PaymentKindRefund
				})).Return(nil)
			},
			expectedError: false,
			validateResult: func(t *testing.T, order *domain.Order, refund *domain.RefundDecision) {
				assert.Equal(t, domain.OrderStatusCancelled, order.Status)
				assert.True(t, refund.RefundAmount.Equal(decimal.NewFromInt(200)))
				assert.Equal(t, 100, refund.RefundPercentage)
			},
		},
		{
			name:    "Failure - cancellation window closed",
			orderID: "ORD-101",
			setupMocks: func(orderRepo *mocks.MockOrderRepository, paymentRepo *mocks.MockPaymentRepository, orderID string) {
				orderRepo.On("GetByOrderID", mock.Anything, orderID).Return(orderStartingIn(orderID, 10, domain.OrderStatusConfirmed), nil)
			},
			expectedError: true,
			errorContains: "no longer be cancelled",
			validateResult: func(t *testing.T, order *domain.Order, refund *domain.RefundDecision) {
				assert.Nil(t, order)
				assert.Nil(t, refund)
			},
		},
		{
			name:    "Failure - order already cancelled",
			orderID: "ORD-102",
			setupMocks: func(orderRepo *mocks.MockOrderRepository, paymentRepo *mocks.MockPaymentRepository, orderID string) {
				orderRepo.On("GetByOrderID", mock.Anything, orderID).Return(orderStartingIn(orderID, 35, domain.OrderStatusCancelled), nil)
			},
			expectedError: true,
			errorContains: "no longer be cancelled",
			validateResult: func(t *testing.T, order *domain.Order, refund *domain.RefundDecision) {
				assert.Nil(t, order)
			},
		},
		{
			name:    "Failure - order not found",
			orderID: "ORD-103",
			setupMocks: func(orderRepo *mocks.MockOrderRepository, paymentRepo *mocks.MockPaymentRepository, orderID string) {
				orderRepo.On("GetByOrderID", mock.Anything, orderID).Return(nil, sql.ErrNoRows)
			},
			expectedError: true,
			errorContains: "not found",
			validateResult: func(t *testing.T, order *domain.Order, refund *domain.RefundDecision) {
				assert.Nil(t, order)
			},
		},
		{
			name:    "Failure - database error on status update",
			orderID: "ORD-104",
			setupMocks: func(orderRepo *mocks.MockOrderRepository, paymentRepo *mocks.MockPaymentRepository, orderID string) {
				orderRepo.On("GetByOrderID", mock.Anything, orderID).Return(orderStartingIn(orderID, 35, domain.OrderStatusConfirmed), nil)
				orderRepo.On("UpdateStatusIf", mock.Anything, orderID, domain.OrderStatusConfirmed, domain.OrderStatusCancelled).Return(false, errors.New("connection reset"))
			},
			expectedError: true,
			errorContains: "database",
			validateResult: func(t *testing.T, order *domain.Order, refund *domain.RefundDecision) {
				assert.Nil(t, order)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			orderRepo := &mocks.MockOrderRepository{}
			paymentRepo := &mocks.MockPaymentRepository{}
			notificationRepo := &mocks.MockNotificationRepository{}

			svc := orderService.NewOrderService(orderRepo, paymentRepo, notificationRepo, nil, nil)

			tt.setupMocks(orderRepo, paymentRepo, tt.orderID)

			// Act
			order, refund, err := svc.CancelOrder(context.Background(), tt.orderID)

			// Assert
			if tt.expectedError {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
			tt.validateResult(t, order, refund)

			orderRepo.AssertExpectations(t)
			paymentRepo.AssertExpectations(t)
		})
	}
}

func TestGetRefundQuote(t *testing.T) {
	tests := []struct {
		name        string
		daysOut     int
		wantRefund  int64
		wantPercent int
	}{
		{"full refund tier", 35, 200, 100},
		{"partial refund tier", 20, 160, 80},
		{"late refund tier", 10, 100, 50},
		{"no refund tier", 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := &mocks.MockOrderRepository{}
			svc := orderService.NewOrderService(orderRepo, &mocks.MockPaymentRepository{}, &mocks.MockNotificationRepository{}, nil, nil)

			orderRepo.On("GetByOrderID", mock.Anything, "ORD-200").Return(orderStartingIn("ORD-200", tt.daysOut, domain.OrderStatusConfirmed), nil)

			quote, err := svc.GetRefundQuote(context.Background(), "ORD-200")

			assert.NoError(t, err)
			assert.True(t, quote.Refund.RefundAmount.Equal(decimal.NewFromInt(tt.wantRefund)),
				"refund = %s, want %d", quote.Refund.RefundAmount, tt.wantRefund)
			assert.Equal(t, tt.wantPercent, quote.Refund.RefundPercentage)
		})
	}
}

func TestGetEligibility(t *testing.T) {
	tests := []struct {
		name          string
		daysOut       int
		status        string
		canModify     bool
		canCancel     bool
		canReschedule bool
	}{
		{"far out confirmed", 35, domain.OrderStatusConfirmed, true, true, true},
		{"reschedule only", 20, domain.OrderStatusConfirmed, false, false, true},
		{"window closed", 10, domain.OrderStatusConfirmed, false, false, false},
		{"pending never reschedules", 20, domain.OrderStatusPending, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := &mocks.MockOrderRepository{}
			svc := orderService.NewOrderService(orderRepo, &mocks.MockPaymentRepository{}, &mocks.MockNotificationRepository{}, nil, nil)

			orderRepo.On("GetByOrderID", mock.Anything, "ORD-201").Return(orderStartingIn("ORD-201", tt.daysOut, tt.status), nil)

			eligibility, err := svc.GetEligibility(context.Background(), "ORD-201")

			assert.NoError(t, err)
			assert.Equal(t, tt.canModify, eligibility.CanModify)
			assert.Equal(t, tt.canCancel, eligibility.CanCancel)
			assert.Equal(t, tt.canReschedule, eligibility.CanReschedule)
		})
	}
}

func TestGetSchedule_SumInvariant(t *testing.T) {
	orderRepo := &mocks.MockOrderRepository{}
	svc := orderService.NewOrderService(orderRepo, &mocks.MockPaymentRepository{}, &mocks.MockNotificationRepository{}, nil, nil)

	order := orderStartingIn("ORD-202", 30, domain.OrderStatusConfirmed)
	order.TotalAmount = decimal.NewFromFloat(133.33)
	orderRepo.On("GetByOrderID", mock.Anything, "ORD-202").Return(order, nil)

	schedule, err := svc.GetSchedule(context.Background(), "ORD-202")

	assert.NoError(t, err)
	assert.True(t, schedule.DepositAmount.Add(schedule.FinalAmount).Equal(order.TotalAmount))
}
