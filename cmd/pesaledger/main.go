package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/wekesa/pesaledger/internal/pkg/audit"
	"github.com/wekesa/pesaledger/internal/pkg/config"
	"github.com/wekesa/pesaledger/internal/pkg/database"
	"github.com/wekesa/pesaledger/internal/pkg/health"
	"github.com/wekesa/pesaledger/internal/pkg/logger"
	"github.com/wekesa/pesaledger/internal/pkg/middleware"
	nsqpkg "github.com/wekesa/pesaledger/internal/pkg/nsq"
	"github.com/wekesa/pesaledger/internal/pkg/server"
	"github.com/wekesa/pesaledger/services/daraja/gateway"
	darajaHandler "github.com/wekesa/pesaledger/services/daraja/handler"
	"github.com/wekesa/pesaledger/services/ledger"
	ledgerHandler "github.com/wekesa/pesaledger/services/ledger/handler"
	"github.com/wekesa/pesaledger/services/ledger/repository"
	"github.com/wekesa/pesaledger/services/ledger/usecase"
)

func main() {
	appName := "pesaledger"
	configs := config.InitConfig(os.Getenv("CONFIG_FILE"))

	appLogger, err := logger.NewAppLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Close()

	appLogger.WithFields(logrus.Fields{
		"app":         appName,
		"version":     configs.App.Version,
		"environment": configs.App.Environment,
	}).Info("Starting application")

	// The store is non-negotiable: failing to reach it at startup is fatal,
	// unlike per-request store failures which are absorbed.
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}
	defer postgresClient.Close()

	schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureSchema(schemaCtx, postgresClient.GetDB()); err != nil {
		cancel()
		appLogger.WithError(err).Fatal("Failed to ensure database schema")
	}
	cancel()

	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	auditSink, err := audit.NewFileSink(configs.Audit)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open audit sink")
	}
	defer auditSink.Close()

	// Event publishing is optional; the ledger works without a broker
	var publisher ledger.EventPublisher
	if configs.NSQ.Enabled {
		producer, err := nsqpkg.NewProducer(configs.NSQ.Address)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to connect to NSQ")
		}
		defer producer.Stop()
		publisher = producer
	}

	// Initialize repositories
	txnRepo := repository.NewTransactionRepo(postgresClient.GetDB())
	accountRepo := repository.NewAccountRepo(postgresClient.GetDB())

	// Initialize use cases
	ledgerUC, err := usecase.NewLedgerUC(configs, txnRepo, accountRepo, auditSink, publisher, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize ledger")
	}

	// Initialize the Daraja gateway and handlers
	darajaGW := gateway.NewDarajaClient(configs.Daraja, redisClient)

	ledgerH := ledgerHandler.NewLedgerHandler(ledgerUC)
	darajaH := darajaHandler.NewDarajaHandler(configs, darajaGW, auditSink)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.LoggerMiddleware(appLogger))

	health.RegisterHealthEndpoints(e, appName, configs.App.Version, postgresClient.GetDB())
	ledgerH.RegisterRoutes(e, configs.JWT)
	darajaH.RegisterRoutes(e)

	// Background reconciliation sweep for un-applied transactions
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go ledgerUC.RunSweeper(sweepCtx)

	srv := server.NewGracefulServer(e, appLogger, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	if err := srv.Start(); err != nil {
		appLogger.WithError(err).Fatal("Server terminated")
	}
}
