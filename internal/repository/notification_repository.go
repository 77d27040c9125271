package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/costumier/rental-engine/internal/domain"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, order_id, kind, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.OrderID,
		notification.Kind,
		notification.Message,
		notification.CreatedAt,
	)

	return err
}

func (r *notificationRepository) GetByOrderID(ctx context.Context, orderID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, order_id, kind, message, created_at
		FROM notifications
		WHERE order_id = $1
		ORDER BY created_at
	`

	var notifications []*domain.Notification
	err := r.db.SelectContext(ctx, &notifications, query, orderID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}
