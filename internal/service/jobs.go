package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/costumier/rental-engine/internal/domain"
	"github.com/costumier/rental-engine/internal/metrics"
	customError "github.com/costumier/rental-engine/pkg/errors"
	"github.com/costumier/rental-engine/pkg/utils"
)

// MarkOverdueDeposits finds orders whose deposit SLA has lapsed and writes an
// overdue notice per order into the notification store. Returns the number of
// notices written. Run daily by the scheduler binary.
func (s *OrderService) MarkOverdueDeposits(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.Add(-s.policy.DepositDue)

	orders, err := s.OrderRepo.ListDepositUnpaid(ctx, cutoff)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	notified := 0
	for _, order := range orders {
		depositDue := order.CreatedAt.Add(s.policy.DepositDue)
		daysOverdue := utils.DaysOverdue(depositDue, now)

		notification := &domain.Notification{
			ID:      uuid.New(),
			OrderID: order.OrderID,
			Kind:    domain.NotificationKindDepositOverdue,
			Message: fmt.Sprintf("The deposit for order %s is %d day(s) overdue. Please complete payment to secure your costume.",
				order.OrderID, daysOverdue),
			CreatedAt: now,
		}

		if err := s.NotificationRepo.Create(ctx, notification); err != nil {
			s.log.Error("Failed to write overdue notice",
				zap.String("order_id", order.OrderID), zap.Error(err))
			continue
		}

		metrics.OverdueNoticesTotal.WithLabelValues(domain.NotificationKindDepositOverdue).Inc()
		notified++
	}

	s.log.Info("Overdue deposit sweep finished",
		zap.Int("candidates", len(orders)),
		zap.Int("notified", notified))

	return notified, nil
}

// SendPaymentReminders writes a reminder for every order whose final
// installment falls due within the reminder window. Run daily by the
// scheduler binary.
func (s *OrderService) SendPaymentReminders(ctx context.Context) (int, error) {
	now := s.now()

	// The final installment is due FinalDueLeadDays before the rental, so
	// "due within reminderDays" means the rental starts within
	// lead + reminder days.
	orders, err := s.OrderRepo.ListFinalDueWithin(ctx, now, s.policy.FinalDueLeadDays+s.reminderDays)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	reminded := 0
	for _, order := range orders {
		schedule := s.policy.BuildSchedule(order.TotalAmount, order.RentalStart, now, order.DepositPaid, order.FinalPaid)

		notification := &domain.Notification{
			ID:      uuid.New(),
			OrderID: order.OrderID,
			Kind:    domain.NotificationKindPaymentReminder,
			Message: fmt.Sprintf("The final payment of %s for order %s is due on %s.",
				schedule.FinalAmount.StringFixed(2), order.OrderID, schedule.FinalDueDate.Format("2006-01-02")),
			CreatedAt: now,
		}

		if err := s.NotificationRepo.Create(ctx, notification); err != nil {
			s.log.Error("Failed to write payment reminder",
				zap.String("order_id", order.OrderID), zap.Error(err))
			continue
		}

		metrics.RemindersSentTotal.Inc()
		reminded++
	}

	s.log.Info("Payment reminder sweep finished",
		zap.Int("candidates", len(orders)),
		zap.Int("reminded", reminded))

	return reminded, nil
}
