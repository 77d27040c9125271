package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationKindPaymentReminder = "payment_reminder"
	NotificationKindDepositOverdue  = "deposit_overdue"
	NotificationKindFinalOverdue    = "final_overdue"
)

// Notification is a row in the notification store. Rows are written by the
// scheduler jobs; delivery is someone else's problem.
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   string    `json:"order_id" db:"order_id"`
	Kind      string    `json:"kind" db:"kind"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
