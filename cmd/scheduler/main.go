package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/costumier/rental-engine/internal/config"
	"github.com/costumier/rental-engine/internal/logger"
	"github.com/costumier/rental-engine/internal/repository"
	"github.com/costumier/rental-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Env); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting rental scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// The scheduler never talks to the cache; jobs always read the store.
	orderService := service.NewOrderService(orderRepo, paymentRepo, notificationRepo, nil, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal("Invalid scheduler timezone", zap.Error(err))
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithLocation(location))

	setupCronJobs(c, orderService, log)

	// Start the scheduler
	c.Start()
	log.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, orderService *service.OrderService, log *zap.Logger) {
	// Daily sweep for deposits past their 24h SLA (runs just after midnight)
	_, err := c.AddFunc("5 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		notified, err := orderService.MarkOverdueDeposits(ctx)
		if err != nil {
			log.Error("Overdue deposit sweep failed", zap.Error(err))
			return
		}
		log.Info("Overdue deposit sweep complete", zap.Int("notified", notified))
	})
	if err != nil {
		log.Error("Failed to schedule overdue deposit sweep", zap.Error(err))
	}

	// Daily final-payment reminders (runs at 9 AM local time)
	_, err = c.AddFunc("0 9 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		reminded, err := orderService.SendPaymentReminders(ctx)
		if err != nil {
			log.Error("Payment reminder sweep failed", zap.Error(err))
			return
		}
		log.Info("Payment reminder sweep complete", zap.Int("reminded", reminded))
	})
	if err != nil {
		log.Error("Failed to schedule payment reminders", zap.Error(err))
	}

	log.Info("Cron jobs scheduled successfully")
}
