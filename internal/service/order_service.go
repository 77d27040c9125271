package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/costumier/rental-engine/internal/config"
	"github.com/costumier/rental-engine/internal/domain"
	"github.com/costumier/rental-engine/internal/logger"
	"github.com/costumier/rental-engine/internal/metrics"
	"github.com/costumier/rental-engine/internal/policy"
	"github.com/costumier/rental-engine/internal/repository"
	customError "github.com/costumier/rental-engine/pkg/errors"
)

// OrderService orchestrates the rental order lifecycle around the pure policy
// engine: it reads snapshots, asks the engine for a decision, and applies the
// decision to the order store. Eligibility is re-checked on the authoritative
// path of every mutation; the engine itself never writes anything.
type OrderService struct {
	OrderRepo        repository.OrderRepository
	PaymentRepo      repository.PaymentRepository
	NotificationRepo repository.NotificationRepository
	redis            *redis.Client
	policy           policy.Policy
	cacheTTL         time.Duration
	reminderDays     int
	log              *zap.Logger

	// now is swapped out in tests for deterministic clocks.
	now func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	notificationRepo repository.NotificationRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *OrderService {
	s := &OrderService{
		OrderRepo:        orderRepo,
		PaymentRepo:      paymentRepo,
		NotificationRepo: notificationRepo,
		redis:            redisClient,
		policy:           policy.Default(),
		cacheTTL:         time.Minute,
		reminderDays:     3,
		log:              logger.Get(),
		now:              time.Now,
	}

	if cfg != nil {
		s.policy = policy.Policy{
			ModifyWindowDays:     cfg.Business.ModifyWindowDays,
			RescheduleWindowDays: cfg.Business.RescheduleWindowDays,
			LateCancelWindowDays: cfg.Business.LateCancelWindowDays,
			DepositRate:          cfg.GetDepositRate(),
			DepositDue:           time.Duration(cfg.Business.DepositDueHours) * time.Hour,
			FinalDueLeadDays:     cfg.Business.FinalDueLeadDays,
			PartialRefundRate:    cfg.GetPartialRefundRate(),
			LateRefundRate:       cfg.GetLateRefundRate(),
		}
		s.cacheTTL = cfg.GetCacheTTL()
		s.reminderDays = cfg.Scheduler.ReminderDays
	}

	return s
}

// CreateOrder validates the rental period, persists the order and returns it
// together with the derived payment schedule.
func (s *OrderService) CreateOrder(ctx context.Context, request *domain.CreateOrderRequest) (*domain.Order, *domain.PaymentSchedule, error) {
	now := s.now()

	if request.RentalStart.IsZero() || !request.RentalStart.After(now) {
		return nil, nil, customError.WrapInvalidRentalDates("rental_start must be in the future")
	}
	if request.RentalEnd.Before(request.RentalStart) {
		return nil, nil, customError.WrapInvalidRentalDates("rental_end must not be before rental_start")
	}
	if request.TotalAmount.IsNegative() {
		return nil, nil, customError.WrapInvalidRentalDates("total_amount must not be negative")
	}

	// Check if order already exists
	existingOrder, err := s.OrderRepo.GetByOrderID(ctx, request.OrderID)
	if err == nil && existingOrder != nil {
		return nil, nil, customError.WrapOrderAlreadyExists(request.OrderID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	order := &domain.Order{
		ID:          uuid.New(),
		OrderID:     request.OrderID,
		CustomerID:  request.CustomerID,
		Status:      domain.OrderStatusPending,
		RentalStart: request.RentalStart,
		RentalEnd:   request.RentalEnd,
		TotalAmount: request.TotalAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err = s.OrderRepo.Create(ctx, order); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	schedule := s.policy.BuildSchedule(order.TotalAmount, order.RentalStart, now, false, false)

	metrics.OrdersCreatedTotal.Inc()
	s.log.Info("Order created",
		zap.String("order_id", order.OrderID),
		zap.String("total_amount", order.TotalAmount.String()),
		zap.Time("rental_start", order.RentalStart))

	return order, schedule, nil
}

// GetOrder returns the order snapshot together with a freshly computed
// eligibility decision. This is the display path: the snapshot may come from
// cache, the decision never does.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.OrderResponse, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &domain.OrderResponse{
		Order:       order,
		Eligibility: s.policy.EvaluateEligibility(order, s.now()),
	}, nil
}

// GetEligibility returns the current eligibility decision for an order.
func (s *OrderService) GetEligibility(ctx context.Context, orderID string) (*domain.EligibilityDecision, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return s.policy.EvaluateEligibility(order, s.now()), nil
}

// GetRefundQuote previews what a cancellation right now would refund,
// without mutating anything.
func (s *OrderService) GetRefundQuote(ctx context.Context, orderID string) (*domain.RefundQuoteResponse, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	days := s.policy.DaysUntilRental(order.RentalStart, s.now())

	return &domain.RefundQuoteResponse{
		OrderID:         order.OrderID,
		DaysUntilRental: days,
		Refund:          s.policy.CalculateRefund(order.TotalAmount, days),
	}, nil
}

// ModifyOrder updates the rental end date and/or total amount. The modify
// window is re-checked here regardless of what any display layer showed.
func (s *OrderService) ModifyOrder(ctx context.Context, orderID string, request *domain.ModifyOrderRequest) (*domain.Order, error) {
	order, err := s.getOrderAuthoritative(ctx, orderID)
	if err != nil {
		return nil, err
	}

	eligibility := s.policy.EvaluateEligibility(order, s.now())
	if !eligibility.CanModify {
		metrics.EligibilityDeniedTotal.WithLabelValues("modify").Inc()
		return nil, customError.WrapModifyWindowClosed(orderID, eligibility.DaysUntilRental)
	}

	rentalEnd := order.RentalEnd
	if request.RentalEnd != nil {
		rentalEnd = *request.RentalEnd
	}
	if rentalEnd.Before(order.RentalStart) {
		return nil, customError.WrapInvalidRentalDates("rental_end must not be before rental_start")
	}

	totalAmount := order.TotalAmount
	if request.TotalAmount != nil {
		totalAmount = *request.TotalAmount
	}
	if totalAmount.IsNegative() {
		return nil, customError.WrapInvalidRentalDates("total_amount must not be negative")
	}

	if err = s.OrderRepo.UpdateTotals(ctx, orderID, rentalEnd, totalAmount); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateCache(ctx, orderID)
	metrics.OrdersModifiedTotal.Inc()

	order.RentalEnd = rentalEnd
	order.TotalAmount = totalAmount

	s.log.Info("Order modified",
		zap.String("order_id", orderID),
		zap.Int("days_until_rental", eligibility.DaysUntilRental))

	return order, nil
}

// CancelOrder cancels an order inside the cancellation window and computes
// the tiered refund. The status transition is guarded against concurrent
// writers by the store.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*domain.Order, *domain.RefundDecision, error) {
	order, err := s.getOrderAuthoritative(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	eligibility := s.policy.EvaluateEligibility(order, now)
	if !eligibility.CanCancel {
		metrics.EligibilityDeniedTotal.WithLabelValues("cancel").Inc()
		return nil, nil, customError.WrapCancelWindowClosed(orderID, eligibility.DaysUntilRental)
	}

	refund := s.policy.CalculateRefund(order.TotalAmount, eligibility.DaysUntilRental)

	applied, err := s.OrderRepo.UpdateStatusIf(ctx, orderID, order.Status, domain.OrderStatusCancelled)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}
	if !applied {
		// Lost the race against a concurrent transition. Fail closed.
		metrics.EligibilityDeniedTotal.WithLabelValues("cancel").Inc()
		return nil, nil, customError.WrapCancelWindowClosed(orderID, eligibility.DaysUntilRental)
	}

	if refund.RefundAmount.IsPositive() {
		payment := &domain.Payment{
			ID:        uuid.New(),
			OrderID:   orderID,
			Kind:      domain.PaymentKindRefund,
			Amount:    refund.RefundAmount,
			CreatedAt: now,
		}
		if err = s.PaymentRepo.Create(ctx, payment); err != nil {
			return nil, nil, customError.WrapDatabaseError(err)
		}
	}

	s.invalidateCache(ctx, orderID)
	metrics.OrdersCancelledTotal.Inc()
	metrics.RefundsIssuedTotal.WithLabelValues(strconv.Itoa(refund.RefundPercentage)).Inc()

	order.Status = domain.OrderStatusCancelled

	s.log.Info("Order cancelled",
		zap.String("order_id", orderID),
		zap.Int("days_until_rental", eligibility.DaysUntilRental),
		zap.String("refund_amount", refund.RefundAmount.String()),
		zap.Int("refund_percentage", refund.RefundPercentage))

	return order, refund, nil
}

// RescheduleOrder moves a confirmed order to a new rental period inside the
// reschedule window.
func (s *OrderService) RescheduleOrder(ctx context.Context, orderID string, request *domain.RescheduleOrderRequest) (*domain.Order, error) {
	order, err := s.getOrderAuthoritative(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	eligibility := s.policy.EvaluateEligibility(order, now)
	if !eligibility.CanReschedule {
		metrics.EligibilityDeniedTotal.WithLabelValues("reschedule").Inc()
		return nil, customError.WrapRescheduleWindowClosed(orderID, eligibility.DaysUntilRental)
	}

	if request.RentalStart.IsZero() || !request.RentalStart.After(now) {
		return nil, customError.WrapInvalidRentalDates("rental_start must be in the future")
	}
	if request.RentalEnd.Before(request.RentalStart) {
		return nil, customError.WrapInvalidRentalDates("rental_end must not be before rental_start")
	}

	if err = s.OrderRepo.UpdateDates(ctx, orderID, request.RentalStart, request.RentalEnd); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateCache(ctx, orderID)
	metrics.OrdersRescheduledTotal.Inc()

	order.RentalStart = request.RentalStart
	order.RentalEnd = request.RentalEnd

	s.log.Info("Order rescheduled",
		zap.String("order_id", orderID),
		zap.Time("rental_start", order.RentalStart))

	return order, nil
}

// GetSchedule derives the current payment schedule from the order snapshot.
func (s *OrderService) GetSchedule(ctx context.Context, orderID string) (*domain.PaymentSchedule, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return s.policy.BuildSchedule(order.TotalAmount, order.RentalStart, s.now(), order.DepositPaid, order.FinalPaid), nil
}

// GetOutstanding classifies the order's payment state and returns what is
// owed right now, if anything.
func (s *OrderService) GetOutstanding(ctx context.Context, orderID string) (*domain.OutstandingResponse, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	schedule := s.policy.BuildSchedule(order.TotalAmount, order.RentalStart, now, order.DepositPaid, order.FinalPaid)
	outstanding := s.policy.OutstandingBalance(schedule, now)

	resp := &domain.OutstandingResponse{
		OrderID: order.OrderID,
		State:   domain.BalanceSettled,
	}
	if outstanding != nil {
		resp.State = outstanding.State
		resp.Outstanding = outstanding
	}

	return resp, nil
}

// RecordPayment is the gateway webhook path: it records a confirmed charge
// in the ledger and flips the matching paid flag on the order. The amount
// must match the scheduled installment exactly.
func (s *OrderService) RecordPayment(ctx context.Context, orderID string, request *domain.RecordPaymentRequest) (*domain.Payment, error) {
	order, err := s.getOrderAuthoritative(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	schedule := s.policy.BuildSchedule(order.TotalAmount, order.RentalStart, now, order.DepositPaid, order.FinalPaid)

	var expected decimal.Decimal
	switch request.Kind {
	case domain.PaymentKindDeposit:
		if order.DepositPaid {
			return nil, customError.WrapPaymentAlreadyRecorded(orderID, request.Kind)
		}
		expected = schedule.DepositAmount
	case domain.PaymentKindFinal:
		if order.FinalPaid {
			return nil, customError.WrapPaymentAlreadyRecorded(orderID, request.Kind)
		}
		expected = schedule.FinalAmount
	default:
		return nil, customError.WrapInvalidRentalDates(fmt.Sprintf("unknown payment kind %q", request.Kind))
	}

	if !request.Amount.Equal(expected) {
		return nil, customError.WrapPaymentAmountMismatch(expected.String(), request.Amount.String())
	}

	payment := &domain.Payment{
		ID:        uuid.New(),
		OrderID:   orderID,
		Kind:      request.Kind,
		Amount:    request.Amount,
		CreatedAt: now,
	}

	if err = s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if request.Kind == domain.PaymentKindDeposit {
		err = s.OrderRepo.MarkDepositPaid(ctx, orderID)
	} else {
		err = s.OrderRepo.MarkFinalPaid(ctx, orderID)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	// A paid pending order becomes confirmed once the deposit clears.
	if request.Kind == domain.PaymentKindDeposit && order.Status == domain.OrderStatusPending {
		if _, err = s.OrderRepo.UpdateStatusIf(ctx, orderID, domain.OrderStatusPending, domain.OrderStatusConfirmed); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	s.invalidateCache(ctx, orderID)
	metrics.PaymentsRecordedTotal.WithLabelValues(request.Kind).Inc()

	s.log.Info("Payment recorded",
		zap.String("order_id", orderID),
		zap.String("kind", request.Kind),
		zap.String("amount", request.Amount.String()))

	return payment, nil
}

// getOrder reads a snapshot cache-aside. Only raw snapshots are cached;
// decisions are always recomputed so a midnight rollover is never masked.
func (s *OrderService) getOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey(orderID)).Result()
		if err == nil {
			var order domain.Order
			if jsonErr := json.Unmarshal([]byte(cached), &order); jsonErr == nil {
				return &order, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn("Cache read failed", zap.String("order_id", orderID), zap.Error(err))
		}
	}

	order, err := s.getOrderAuthoritative(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, jsonErr := json.Marshal(order); jsonErr == nil {
			if err := s.redis.Set(ctx, cacheKey(orderID), raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn("Cache write failed", zap.String("order_id", orderID), zap.Error(err))
			}
		}
	}

	return order, nil
}

// getOrderAuthoritative always hits the order store.
func (s *OrderService) getOrderAuthoritative(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.OrderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapOrderNotFound(orderID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return order, nil
}

func (s *OrderService) invalidateCache(ctx context.Context, orderID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey(orderID)).Err(); err != nil {
		s.log.Warn("Cache invalidation failed", zap.String("order_id", orderID), zap.Error(err))
	}
}

func cacheKey(orderID string) string {
	return "order:" + orderID
}
