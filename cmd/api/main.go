package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cimillas/user-balance/internal/app"
	"github.com/cimillas/user-balance/internal/clock"
	"github.com/cimillas/user-balance/internal/config"
	"github.com/cimillas/user-balance/internal/notify"
	"github.com/cimillas/user-balance/internal/storage/postgres"
	transporthttp "github.com/cimillas/user-balance/internal/transport/http"
	"github.com/cimillas/user-balance/migrations"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("parse database url: %v", err)
	}
	poolCfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	var publisher notify.Publisher = notify.NewLogPublisher(logger)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		logger.Printf("WARN: redis unreachable, notifications fall back to log: %v", err)
	} else {
		publisher = notify.NewRedisPublisher(redisClient)
		defer redisClient.Close()
	}

	bus := notify.NewBus(publisher, cfg.NotifyBuffer, logger)
	defer bus.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	transferSvc := app.NewTransferService(accountRepo, clock.NewSystem(), bus)
	orderRepo := postgres.NewOrderRepository(pool)
	orderSvc := app.NewOrderService(orderRepo, clock.NewSystem(), bus)
	reportSvc := app.NewReportService(orderRepo, bus)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/v1/deposit", transporthttp.HandleDeposit(transferSvc))
	mux.Handle("/v1/transfer", transporthttp.HandleTransfer(transferSvc))
	mux.Handle("/v1/balance", transporthttp.HandleBalance(transferSvc))
	mux.Handle("/v1/orders", transporthttp.HandleCreateOrder(orderSvc))
	mux.Handle("/v1/orders/", transporthttp.HandleResolveOrder(orderSvc))
	mux.Handle("/v1/reports/sum", transporthttp.HandleSumReport(reportSvc))
	mux.Handle("/v1/transactions", transporthttp.HandleListTransactions(reportSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
