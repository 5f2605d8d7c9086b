package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rushreport/rushreport/config"
	"github.com/rushreport/rushreport/internal/genai"
	handler "github.com/rushreport/rushreport/internal/handler/http"
	"github.com/rushreport/rushreport/internal/mailer"
	"github.com/rushreport/rushreport/internal/payment"
	"github.com/rushreport/rushreport/internal/ratelimit"
	"github.com/rushreport/rushreport/internal/repository"
	"github.com/rushreport/rushreport/internal/repository/postgres"
	"github.com/rushreport/rushreport/internal/service"
	"github.com/rushreport/rushreport/internal/worker"
	"go.uber.org/zap"
)

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {

	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// create context canceled on shutdown signals
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	// rate limiter for the synchronous generation endpoint
	limiter, err := ratelimit.NewFixedWindowLimiter(cfg.RedisAddr, "", "rushreport:ratelimit", cfg.RateLimit, cfg.RateWindow)
	if err != nil {
		logger.Fatal("Error initializing rate limiter", zap.Error(err))
	}

	// dependency injection
	// report generation
	genClient := genai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	reportService := service.NewReportService(genClient)

	// mail
	mail := mailer.New(cfg.ResendAPIKey, cfg.EmailFrom)

	// orders
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, reportService, mail, logger, cfg.BatchSize)

	// payments
	gateway := payment.NewGateway(cfg.StripeAPIKey, cfg.StripeWebhookSecret, cfg.BaseURL)

	reportHandler := handler.NewReportHandler(reportService, mail, limiter, logger)
	checkoutHandler := handler.NewCheckoutHandler(gateway, logger)
	webhookHandler := handler.NewWebhookHandler(gateway, orderService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger, cfg.CronAPIKey)

	// background fulfillment loop
	processor := worker.NewOrderProcessor(orderService, logger, cfg.PollInterval)
	go processor.ProcessOrders(ctx)

	router := chi.NewRouter()

	router.Use(handler.Logging(logger))

	router.Post("/api/generate", reportHandler.GenerateReport())
	router.Get("/api/health", reportHandler.Health())
	router.Post("/api/checkout", checkoutHandler.CreateCheckout())
	router.Post("/api/webhooks/stripe", webhookHandler.HandleStripeEvent())
	router.Post("/api/orders/process", orderHandler.ProcessPending())
	router.Get("/api/orders/{id}", orderHandler.GetOrder())
	router.Handle("/metrics", promhttp.Handler())

	logger.Info("Running server", zap.String("addr", cfg.ServerAddr))

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Error starting server", zap.Error(err))
	}
}
