package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderAlreadyExists     = errors.New("order already exists")
	ErrInvalidRentalDates     = errors.New("invalid rental dates")
	ErrModifyWindowClosed     = errors.New("order can no longer be modified")
	ErrCancelWindowClosed     = errors.New("order can no longer be cancelled")
	ErrRescheduleWindowClosed = errors.New("order can no longer be rescheduled")
	ErrPaymentAmountMismatch  = errors.New("payment amount must match the scheduled installment exactly")
	ErrPaymentAlreadyRecorded = errors.New("installment has already been paid")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeOrderNotFound          = "ORDER_NOT_FOUND"
	ErrCodeOrderAlreadyExists     = "ORDER_ALREADY_EXISTS"
	ErrCodeInvalidRentalDates     = "INVALID_RENTAL_DATES"
	ErrCodeModifyWindowClosed     = "MODIFY_WINDOW_CLOSED"
	ErrCodeCancelWindowClosed     = "CANCEL_WINDOW_CLOSED"
	ErrCodeRescheduleWindowClosed = "RESCHEDULE_WINDOW_CLOSED"
	ErrCodePaymentAmountMismatch  = "PAYMENT_AMOUNT_MISMATCH"
	ErrCodePaymentAlreadyRecorded = "PAYMENT_ALREADY_RECORDED"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapOrderNotFound(orderID string) *BusinessError {
	return NewBusinessError(
		ErrCodeOrderNotFound,
		fmt.Sprintf("Order with ID %s not found", orderID),
		ErrOrderNotFound,
	)
}

func WrapOrderAlreadyExists(orderID string) *BusinessError {
	return NewBusinessError(
		ErrCodeOrderAlreadyExists,
		fmt.Sprintf("Order with ID %s already exists", orderID),
		ErrOrderAlreadyExists,
	)
}

func WrapInvalidRentalDates(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRentalDates,
		reason,
		ErrInvalidRentalDates,
	)
}

func WrapModifyWindowClosed(orderID string, daysUntilRental int) *BusinessError {
	return NewBusinessError(
		ErrCodeModifyWindowClosed,
		fmt.Sprintf("Order %s is %d days from rental start and can no longer be modified", orderID, daysUntilRental),
		ErrModifyWindowClosed,
	)
}

func WrapCancelWindowClosed(orderID string, daysUntilRental int) *BusinessError {
	return NewBusinessError(
		ErrCodeCancelWindowClosed,
		fmt.Sprintf("Order %s is %d days from rental start and can no longer be cancelled", orderID, daysUntilRental),
		ErrCancelWindowClosed,
	)
}

func WrapRescheduleWindowClosed(orderID string, daysUntilRental int) *BusinessError {
	return NewBusinessError(
		ErrCodeRescheduleWindowClosed,
		fmt.Sprintf("Order %s is %d days from rental start and can no longer be rescheduled", orderID, daysUntilRental),
		ErrRescheduleWindowClosed,
	)
}

func WrapPaymentAmountMismatch(expected, actual string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentAmountMismatch,
		fmt.Sprintf("Payment amount %s does not match scheduled installment %s", actual, expected),
		ErrPaymentAmountMismatch,
	)
}

func WrapPaymentAlreadyRecorded(orderID, kind string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentAlreadyRecorded,
		fmt.Sprintf("The %s installment for order %s has already been paid", kind, orderID),
		ErrPaymentAlreadyRecorded,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
