package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// Order is the rental order record as held by the order store.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     string          `json:"order_id" db:"order_id"`
	CustomerID  string          `json:"customer_id" db:"customer_id"`
	Status      string          `json:"status" db:"status"`
	RentalStart time.Time       `json:"rental_start" db:"rental_start"`
	RentalEnd   time.Time       `json:"rental_end" db:"rental_end"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	DepositPaid bool            `json:"deposit_paid" db:"deposit_paid"`
	FinalPaid   bool            `json:"final_paid" db:"final_paid"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateOrderRequest struct {
	OrderID     string          `json:"order_id" validate:"required"`
	CustomerID  string          `json:"customer_id" validate:"required"`
	RentalStart time.Time       `json:"rental_start" validate:"required"`
	RentalEnd   time.Time       `json:"rental_end" validate:"required"`
	// A zero total is legal (free promotional rentals); negativity is
	// rejected by the service.
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type CreateOrderResponse struct {
	Order    *Order           `json:"order"`
	Schedule *PaymentSchedule `json:"schedule"`
}

type ModifyOrderRequest struct {
	RentalEnd   *time.Time       `json:"rental_end,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
}

type RescheduleOrderRequest struct {
	RentalStart time.Time `json:"rental_start" validate:"required"`
	RentalEnd   time.Time `json:"rental_end" validate:"required"`
}

type RecordPaymentRequest struct {
	Kind   string          `json:"kind" validate:"required,oneof=deposit final"`
	Amount decimal.Decimal `json:"amount"`
}

type OrderResponse struct {
	Order       *Order               `json:"order"`
	Eligibility *EligibilityDecision `json:"eligibility"`
}

type CancelOrderResponse struct {
	Order  *Order          `json:"order"`
	Refund *RefundDecision `json:"refund"`
}
