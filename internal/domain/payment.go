package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentKindDeposit = "deposit"
	PaymentKindFinal   = "final"
	PaymentKindRefund  = "refund"
)

// Payment is a ledger row written when the gateway confirms a charge
// (or when a refund is issued on cancellation).
type Payment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   string          `json:"order_id" db:"order_id"`
	Kind      string          `json:"kind" db:"kind"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
