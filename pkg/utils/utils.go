package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// CeilDays converts a duration to whole days, rounding up.
// Negative durations round toward zero's far side as well: -36h -> -1.
func CeilDays(d time.Duration) int {
	days := int(d / day)
	if d%day > 0 {
		days++
	}
	return days
}

// DaysUntil returns the number of whole days from now until target, rounded up.
// May be negative when the target is in the past.
func DaysUntil(target, now time.Time) int {
	return CeilDays(target.Sub(now))
}

// DaysOverdue returns how many whole days past due a deadline is, floored at 0.
func DaysOverdue(due, now time.Time) int {
	overdue := CeilDays(now.Sub(due))
	if overdue < 0 {
		return 0
	}
	return overdue
}

// IsOverdue checks whether a due date has passed.
func IsOverdue(due, now time.Time) bool {
	return now.After(due)
}

// Percentage returns round(part/total * 100) as an integer.
// A zero total yields 0 rather than a division error.
func Percentage(part, total decimal.Decimal) int {
	if total.IsZero() {
		return 0
	}
	return int(part.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
