package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"khetibook/internal/config"
	"khetibook/internal/repository/mongodb"
	"khetibook/internal/repository/sheets"
	"khetibook/internal/scheduler"
	"khetibook/internal/server/handlers"
	"khetibook/internal/server/router"
	"khetibook/internal/service/bookkeeping"
	"khetibook/internal/service/finance"
	"khetibook/internal/service/lifecycle"
	"khetibook/internal/service/reconcile"
	reportingsvc "khetibook/internal/service/reporting"
	"khetibook/internal/service/session"
	"khetibook/pkg/clients/ledger"
	"khetibook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	sessions := session.NewManager(cfg.Session.FilePath, baseLogger.Named("session"))
	ledgerClient := ledger.NewClient(cfg.Ledger)

	engine := reconcile.NewEngine(baseLogger.Named("svc.reconcile"))
	bookkeepingSvc := bookkeeping.NewService(ledgerClient, engine, baseLogger.Named("svc.bookkeeping"))
	financeSvc := finance.NewService(ledgerClient, baseLogger.Named("svc.finance"))
	lifecycleCalc := lifecycle.NewCalculator()

	// Snapshot storage and sheet export are optional subsystems.
	var snapshotRepo mongodb.Repository
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		snapshotRepo = mongoRepo
		baseLogger.Info("daily snapshot storage enabled")
	} else {
		baseLogger.Warn("mongodb uri missing, daily snapshots disabled")
	}

	var sheetRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("spreadsheet export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, spreadsheet export disabled")
	}

	reportingSvc := reportingsvc.NewService(ledgerClient, sessions, snapshotRepo, sheetRepo, baseLogger.Named("svc.reporting"))

	handler := handlers.New(sessions, ledgerClient, bookkeepingSvc, financeSvc, lifecycleCalc, reportingSvc, baseLogger.Named("handlers"))
	ginEngine := router.New(handler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      ginEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
