package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment state labels reported by the outstanding-balance classifier.
const (
	BalanceAwaitingDeposit = "awaiting_deposit"
	BalanceAwaitingFinal   = "awaiting_final"
	BalanceSettled         = "settled"
)

// EligibilityDecision says which lifecycle actions are currently permitted
// for an order. It is recomputed from the order snapshot and the wall clock
// on every request; a past rental start simply yields all-false flags.
type EligibilityDecision struct {
	DaysUntilRental int  `json:"days_until_rental"`
	CanModify       bool `json:"can_modify"`
	CanCancel       bool `json:"can_cancel"`
	CanReschedule   bool `json:"can_reschedule"`
}

// RefundDecision is the tiered refund owed on cancellation.
type RefundDecision struct {
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	RefundPercentage int             `json:"refund_percentage"`
}

// PaymentSchedule is the two-installment payment plan derived from the
// order total and rental start. Paid flags are owned by the order store
// and only pass through here.
type PaymentSchedule struct {
	DepositAmount  decimal.Decimal `json:"deposit_amount"`
	DepositDueDate time.Time       `json:"deposit_due_date"`
	DepositPaid    bool            `json:"deposit_paid"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	FinalDueDate   time.Time       `json:"final_due_date"`
	FinalPaid      bool            `json:"final_paid"`
}

// OutstandingBalance is the "what is owed right now" projection.
type OutstandingBalance struct {
	State       string          `json:"state"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	DaysOverdue int             `json:"days_overdue"`
}

type EligibilityResponse struct {
	OrderID     string               `json:"order_id"`
	Eligibility *EligibilityDecision `json:"eligibility"`
}

type RefundQuoteResponse struct {
	OrderID         string          `json:"order_id"`
	DaysUntilRental int             `json:"days_until_rental"`
	Refund          *RefundDecision `json:"refund"`
}

type ScheduleResponse struct {
	OrderID  string           `json:"order_id"`
	Schedule *PaymentSchedule `json:"schedule"`
}

type OutstandingResponse struct {
	OrderID     string              `json:"order_id"`
	State       string              `json:"state"`
	Outstanding *OutstandingBalance `json:"outstanding,omitempty"`
}
