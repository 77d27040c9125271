// Package policy holds the rental order business rules: eligibility windows,
// refund tiers and the two-installment payment schedule. Everything here is a
// pure function of an order snapshot and an explicit "now" — the same rules
// are evaluated by the display path (show/hide actions) and the authoritative
// path (reject disallowed mutations), so the two can never drift.
package policy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/costumier/rental-engine/internal/domain"
	"github.com/costumier/rental-engine/pkg/utils"
)

// Policy carries the business thresholds. Values come from config at startup
// and are treated as immutable afterwards.
type Policy struct {
	// ModifyWindowDays is the exclusive lower bound on days-until-rental for
	// modification and cancellation (and the full-refund tier).
	ModifyWindowDays int
	// RescheduleWindowDays bounds rescheduling (and the partial-refund tier).
	RescheduleWindowDays int
	// LateCancelWindowDays bounds the last non-zero refund tier.
	LateCancelWindowDays int
	// DepositRate is the fraction of the total due up front.
	DepositRate decimal.Decimal
	// DepositDue is the SLA from schedule computation to deposit due date.
	DepositDue time.Duration
	// FinalDueLeadDays is how many days before rental start the final
	// installment is due.
	FinalDueLeadDays  int
	PartialRefundRate decimal.Decimal
	LateRefundRate    decimal.Decimal
}

// Default returns the standard rental policy: 28/14/7-day windows, 30%
// deposit due within 24h, final installment due 7 days before the rental,
// refund tiers 100/80/50/0%.
func Default() Policy {
	return Policy{
		ModifyWindowDays:     28,
		RescheduleWindowDays: 14,
		LateCancelWindowDays: 7,
		DepositRate:          decimal.NewFromFloat(0.30),
		DepositDue:           24 * time.Hour,
		FinalDueLeadDays:     7,
		PartialRefundRate:    decimal.NewFromFloat(0.80),
		LateRefundRate:       decimal.NewFromFloat(0.50),
	}
}

// DaysUntilRental is the ceiling of (rentalStart - now) in whole days.
// A zero rentalStart counts as 0 days out, which denies every action and
// refund below — the fail-closed default for corrupt order records.
func (p Policy) DaysUntilRental(rentalStart, now time.Time) int {
	if rentalStart.IsZero() {
		return 0
	}
	return utils.DaysUntil(rentalStart, now)
}

// EvaluateEligibility decides which lifecycle actions are currently permitted.
// It never fails: past or missing dates just yield all-false flags.
func (p Policy) EvaluateEligibility(order *domain.Order, now time.Time) *domain.EligibilityDecision {
	days := p.DaysUntilRental(order.RentalStart, now)
	canModify := days > p.ModifyWindowDays

	return &domain.EligibilityDecision{
		DaysUntilRental: days,
		CanModify:       canModify,
		CanCancel:       canModify && order.Status != domain.OrderStatusCancelled,
		CanReschedule:   days > p.RescheduleWindowDays && order.Status == domain.OrderStatusConfirmed,
	}
}

// CalculateRefund applies the refund tiers top-down, first match wins.
// Thresholds are exclusive lower bounds on daysUntilRental.
func (p Policy) CalculateRefund(total decimal.Decimal, daysUntilRental int) *domain.RefundDecision {
	var refund decimal.Decimal

	switch {
	case daysUntilRental > p.ModifyWindowDays:
		refund = total
	case daysUntilRental > p.RescheduleWindowDays:
		refund = total.Mul(p.PartialRefundRate).Round(2)
	case daysUntilRental > p.LateCancelWindowDays:
		refund = total.Mul(p.LateRefundRate).Round(2)
	default:
		refund = decimal.Zero
	}

	return &domain.RefundDecision{
		RefundAmount:     refund,
		RefundPercentage: utils.Percentage(refund, total),
	}
}

// BuildSchedule derives the deposit/final installment plan. The final amount
// is total minus the rounded deposit so the two always sum to the total
// exactly. Paid flags are caller-supplied and pass through unchanged.
func (p Policy) BuildSchedule(total decimal.Decimal, rentalStart, now time.Time, depositPaid, finalPaid bool) *domain.PaymentSchedule {
	deposit := total.Mul(p.DepositRate).Round(2)

	return &domain.PaymentSchedule{
		DepositAmount:  deposit,
		DepositDueDate: now.Add(p.DepositDue),
		DepositPaid:    depositPaid,
		FinalAmount:    total.Sub(deposit),
		FinalDueDate:   rentalStart.AddDate(0, 0, -p.FinalDueLeadDays),
		FinalPaid:      finalPaid,
	}
}

// OutstandingBalance classifies a schedule into awaiting-deposit,
// awaiting-final or settled, and returns what is owed right now.
// Returns nil when nothing is currently due. Overdue days floor at 0 in
// both branches.
func (p Policy) OutstandingBalance(schedule *domain.PaymentSchedule, now time.Time) *domain.OutstandingBalance {
	switch {
	case !schedule.DepositPaid:
		return &domain.OutstandingBalance{
			State:       domain.BalanceAwaitingDeposit,
			Amount:      schedule.DepositAmount,
			DueDate:     schedule.DepositDueDate,
			DaysOverdue: utils.DaysOverdue(schedule.DepositDueDate, now),
		}
	case !schedule.FinalPaid && !now.Before(schedule.FinalDueDate):
		return &domain.OutstandingBalance{
			State:       domain.BalanceAwaitingFinal,
			Amount:      schedule.FinalAmount,
			DueDate:     schedule.FinalDueDate,
			DaysOverdue: utils.DaysOverdue(schedule.FinalDueDate, now),
		}
	default:
		return nil
	}
}
