package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/costumier/rental-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, kind, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.Kind,
		payment.Amount,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, order_id, kind, amount, created_at
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, orderID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) GetTotalPaid(ctx context.Context, orderID string) (decimal.Decimal, error) {
	// Refund rows carry the refund kind and subtract from the net total.
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'refund' THEN -amount ELSE amount END), 0)
		FROM payments
		WHERE order_id = $1
	`

	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, query, orderID)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
