package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_orders_created_total",
		Help: "Total number of rental orders created",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_orders_cancelled_total",
		Help: "Total number of rental orders cancelled",
	})

	OrdersModifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_orders_modified_total",
		Help: "Total number of rental orders modified",
	})

	OrdersRescheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_orders_rescheduled_total",
		Help: "Total number of rental orders rescheduled",
	})

	EligibilityDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_eligibility_denied_total",
		Help: "Mutations rejected because the eligibility window had closed",
	}, []string{"action"})

	RefundsIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_refunds_issued_total",
		Help: "Refunds issued on cancellation, by refund tier percentage",
	}, []string{"tier"})

	PaymentsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_payments_recorded_total",
		Help: "Installment payments recorded via the gateway webhook",
	}, []string{"kind"})

	RemindersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_payment_reminders_total",
		Help: "Payment reminder notifications written by the scheduler",
	})

	OverdueNoticesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_overdue_notices_total",
		Help: "Overdue notices written by the scheduler",
	}, []string{"kind"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
