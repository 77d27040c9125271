package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/costumier/rental-engine/internal/domain"
)

// OrderRepository defines the interface for the order store
type OrderRepository interface {
	// Create creates a new order
	Create(ctx context.Context, order *domain.Order) error

	// GetByOrderID retrieves an order by its external order ID
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)

	// UpdateDates replaces the rental period
	UpdateDates(ctx context.Context, orderID string, rentalStart, rentalEnd time.Time) error

	// UpdateTotals replaces the end date and/or total amount
	UpdateTotals(ctx context.Context, orderID string, rentalEnd time.Time, totalAmount decimal.Decimal) error

	// UpdateStatusIf moves the order from one status to another; the update
	// only applies when the current status still matches, and reports
	// whether it did. This is the store's optimistic check-then-act guard.
	UpdateStatusIf(ctx context.Context, orderID, fromStatus, toStatus string) (bool, error)

	// MarkDepositPaid flips the deposit paid flag
	MarkDepositPaid(ctx context.Context, orderID string) error

	// MarkFinalPaid flips the final payment paid flag
	MarkFinalPaid(ctx context.Context, orderID string) error

	// ListDepositUnpaid returns non-cancelled orders whose deposit is still
	// unpaid and were created before the cutoff
	ListDepositUnpaid(ctx context.Context, createdBefore time.Time) ([]*domain.Order, error)

	// ListFinalDueWithin returns non-cancelled orders whose final payment is
	// unpaid and whose rental starts within the lead window
	ListFinalDueWithin(ctx context.Context, asOf time.Time, leadDays int) ([]*domain.Order, error)
}

// PaymentRepository defines the interface for the payment ledger
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByOrderID retrieves all payments for an order
	GetByOrderID(ctx context.Context, orderID string) ([]*domain.Payment, error)

	// GetTotalPaid calculates the net amount paid for an order
	GetTotalPaid(ctx context.Context, orderID string) (decimal.Decimal, error)
}

// NotificationRepository defines the interface for the notification store
type NotificationRepository interface {
	// Create writes a notification row
	Create(ctx context.Context, notification *domain.Notification) error

	// GetByOrderID retrieves all notifications for an order
	GetByOrderID(ctx context.Context, orderID string) ([]*domain.Notification, error)
}
