package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/coffeecommand/backend/internal/application/access"
	branchapp "github.com/coffeecommand/backend/internal/application/branch"
	ledgerapp "github.com/coffeecommand/backend/internal/application/ledger"
	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/infrastructure/auth"
	"github.com/coffeecommand/backend/internal/infrastructure/cache"
	"github.com/coffeecommand/backend/internal/infrastructure/config"
	"github.com/coffeecommand/backend/internal/infrastructure/event"
	"github.com/coffeecommand/backend/internal/infrastructure/logger"
	"github.com/coffeecommand/backend/internal/infrastructure/persistence"
	"github.com/coffeecommand/backend/internal/infrastructure/scheduler"
	"github.com/coffeecommand/backend/internal/interfaces/http/handler"
	"github.com/coffeecommand/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	// Initialize database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("database is not reachable", zap.Error(err))
	}

	// Business calendar: one configured timezone defines "today" for every
	// branch, the ledger services, and the end-of-day sweep
	loc, err := time.LoadLocation(cfg.Business.Timezone)
	if err != nil {
		log.Fatal("invalid business timezone", zap.String("timezone", cfg.Business.Timezone), zap.Error(err))
	}
	ledger.SetBusinessLocation(loc)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	grantRepo := persistence.NewGormGrantRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	openingRepo := persistence.NewGormOpeningBalanceRepository(db.DB)
	dayCloseRepo := persistence.NewGormDayCloseRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)

	// Branch selection store: redis when configured, in-process otherwise
	var selections access.SelectionStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisSelectionStore(&cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
		selections = redisStore
		log.Info("using redis selection store", zap.String("addr", cfg.Redis.Addr()))
	} else {
		selections = cache.NewInMemorySelectionStore()
		log.Info("using in-memory selection store")
	}

	// Domain events: in-process bus with the audit trail subscribed
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	accessService := access.NewBranchAccessService(branchRepo, selections, log)
	grantService := access.NewGrantService(userRepo, grantRepo, branchRepo, eventBus, log)
	branchService := branchapp.NewBranchService(branchRepo, log)
	reconcilerService := ledgerapp.NewReconcilerService(openingRepo, dayCloseRepo, saleRepo, expenseRepo, log)
	endOfDayService := ledgerapp.NewEndOfDayService(reconcilerService, openingRepo, dayCloseRepo, log)
	transactionService := ledgerapp.NewTransactionService(saleRepo, expenseRepo, dayCloseRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	handlers := router.Handlers{
		System:      handler.NewSystemHandler(db),
		Access:      handler.NewAccessHandler(accessService, log),
		Branch:      handler.NewBranchHandler(branchService, log),
		Ledger:      handler.NewLedgerHandler(reconcilerService, endOfDayService, log),
		Transaction: handler.NewTransactionHandler(transactionService, log),
		Admin:       handler.NewAdminHandler(grantService, log),
	}

	engine := router.Setup(router.Dependencies{
		Config:     cfg,
		JWTService: jwtService,
		Grants:     grantService,
		Logger:     log,
	}, handlers)

	// End-of-day scheduler, on the same business clock as the day keys
	schedulerCfg := scheduler.DefaultAutoCloseSchedulerConfig(loc)
	schedulerCfg.Enabled = cfg.Scheduler.Enabled
	if cfg.Scheduler.CloseTime != "" {
		schedulerCfg.CloseTime = cfg.Scheduler.CloseTime
	}
	if cfg.Scheduler.JobTimeout > 0 {
		schedulerCfg.JobTimeout = cfg.Scheduler.JobTimeout
	}
	autoClose := scheduler.NewAutoCloseScheduler(endOfDayService, branchRepo, log, schedulerCfg)
	if err := autoClose.Start(context.Background()); err != nil {
		log.Fatal("failed to start auto-close scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := autoClose.Stop(ctx); err != nil {
		log.Error("scheduler did not stop cleanly", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
