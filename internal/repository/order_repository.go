package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/costumier/rental-engine/internal/domain"
)

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, order_id, customer_id, status, rental_start, rental_end, total_amount, deposit_paid, final_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.OrderID,
		order.CustomerID,
		order.Status,
		order.RentalStart,
		order.RentalEnd,
		order.TotalAmount,
		order.DepositPaid,
		order.FinalPaid,
		order.CreatedAt,
		order.UpdatedAt,
	)

	return err
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `
		SELECT id, order_id, customer_id, status, rental_start, rental_end, total_amount, deposit_paid, final_paid, created_at, updated_at
		FROM orders
		WHERE order_id = $1
	`

	var order domain.Order
	err := r.db.GetContext(ctx, &order, query, orderID)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) UpdateDates(ctx context.Context, orderID string, rentalStart, rentalEnd time.Time) error {
	query := `
		UPDATE orders
		SET rental_start = $2, rental_end = $3, updated_at = $4
		WHERE order_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, orderID, rentalStart, rentalEnd, time.Now())
	return err
}

func (r *orderRepository) UpdateTotals(ctx context.Context, orderID string, rentalEnd time.Time, totalAmount decimal.Decimal) error {
	query := `
		UPDATE orders
		SET rental_end = $2, total_amount = $3, updated_at = $4
		WHERE order_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, orderID, rentalEnd, totalAmount, time.Now())
	return err
}

func (r *orderRepository) UpdateStatusIf(ctx context.Context, orderID, fromStatus, toStatus string) (bool, error) {
	// Single-statement status transition: losing a concurrent race means
	// zero rows affected, never a double transition.
	query := `
		UPDATE orders
		SET status = $3, updated_at = $4
		WHERE order_id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, orderID, fromStatus, toStatus, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *orderRepository) MarkDepositPaid(ctx context.Context, orderID string) error {
	query := `
		UPDATE orders
		SET deposit_paid = TRUE, updated_at = $2
		WHERE order_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, orderID, time.Now())
	return err
}

func (r *orderRepository) MarkFinalPaid(ctx context.Context, orderID string) error {
	query := `
		UPDATE orders
		SET final_paid = TRUE, updated_at = $2
		WHERE order_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, orderID, time.Now())
	return err
}

func (r *orderRepository) ListDepositUnpaid(ctx context.Context, createdBefore time.Time) ([]*domain.Order, error) {
	query := `
		SELECT id, order_id, customer_id, status, rental_start, rental_end, total_amount, deposit_paid, final_paid, created_at, updated_at
		FROM orders
		WHERE deposit_paid = FALSE AND status NOT IN ('cancelled', 'completed') AND created_at < $1
		ORDER BY created_at
	`

	var orders []*domain.Order
	err := r.db.SelectContext(ctx, &orders, query, createdBefore)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) ListFinalDueWithin(ctx context.Context, asOf time.Time, leadDays int) ([]*domain.Order, error) {
	query := `
		SELECT id, order_id, customer_id, status, rental_start, rental_end, total_amount, deposit_paid, final_paid, created_at, updated_at
		FROM orders
		WHERE deposit_paid = TRUE AND final_paid = FALSE
		  AND status NOT IN ('cancelled', 'completed')
		  AND rental_start <= $1 + make_interval(days => $2)
		ORDER BY rental_start
	`

	var orders []*domain.Order
	err := r.db.SelectContext(ctx, &orders, query, asOf, leadDays)
	if err != nil {
		return nil, err
	}

	return orders, nil
}
