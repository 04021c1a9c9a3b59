package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/config"
	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/repository/mongodb"
	"github.com/mamadbah2/oliveraq/internal/repository/sheets"
	"github.com/mamadbah2/oliveraq/internal/scheduler"
	"github.com/mamadbah2/oliveraq/internal/server/handlers"
	"github.com/mamadbah2/oliveraq/internal/server/router"
	authsvc "github.com/mamadbah2/oliveraq/internal/service/auth"
	employeesvc "github.com/mamadbah2/oliveraq/internal/service/employees"
	ordersvc "github.com/mamadbah2/oliveraq/internal/service/orders"
	quizsvc "github.com/mamadbah2/oliveraq/internal/service/quiz"
	reportingsvc "github.com/mamadbah2/oliveraq/internal/service/reporting"
	stocksvc "github.com/mamadbah2/oliveraq/internal/service/stock"
	whatsappsvc "github.com/mamadbah2/oliveraq/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/oliveraq/pkg/clients/whatsapp"
	"github.com/mamadbah2/oliveraq/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc := cfg.Business.Location()
	calendar := models.CalendarIn(loc)

	var reportOpts []reportingsvc.Option

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		reportOpts = append(reportOpts, reportingsvc.WithArchive(mongoRepo))
		baseLogger.Info("mongodb report archive enabled")
	} else {
		baseLogger.Warn("MONGODB_URI missing, monthly reports will not be archived")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		reportOpts = append(reportOpts, reportingsvc.WithSheets(sheetsRepo))
		baseLogger.Info("google sheets export enabled")
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier := whatsappsvc.NewNotifier(cfg.WhatsApp, whatsClient, baseLogger.Named("svc.whatsapp"))
		reportOpts = append(reportOpts, reportingsvc.WithNotifier(notifier))
		baseLogger.Info("whatsapp notifications enabled")
	}

	account, err := authsvc.NewAccount(cfg.Auth.DefaultPassword)
	if err != nil {
		baseLogger.Fatal("failed to init admin account", zap.Error(err))
	}
	var checker authsvc.CredentialChecker = authsvc.OpenChecker
	if cfg.Auth.RequirePassword {
		checker = authsvc.AccountChecker(account)
	}
	gate := authsvc.NewGate(checker, authsvc.NewSessionManager(), baseLogger.Named("svc.auth"))

	employeeSvc := employeesvc.NewService(calendar, baseLogger.Named("svc.employees"))
	clientSvc := ordersvc.NewService(models.KindClient, calendar, baseLogger.Named("svc.orders.client"))
	supplierSvc := ordersvc.NewService(models.KindSupplier, calendar, baseLogger.Named("svc.orders.supplier"))
	stockSvc := stocksvc.NewService(calendar, baseLogger.Named("svc.stock"))
	reportingSvc := reportingsvc.NewService(cfg.Business, cfg.Reporting.ExportDir, calendar, baseLogger.Named("svc.reporting"), reportOpts...)

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(gate, account, baseLogger.Named("handlers.auth")),
		Calc:      handlers.NewCalcHandler(baseLogger.Named("handlers.calc")),
		Employees: handlers.NewEmployeeHandler(employeeSvc, reportingSvc, baseLogger.Named("handlers.employees")),
		Orders:    handlers.NewOrderHandler([]*ordersvc.Service{clientSvc, supplierSvc}, reportingSvc, baseLogger.Named("handlers.orders")),
		Stock:     handlers.NewStockHandler(stockSvc, reportingSvc, baseLogger.Named("handlers.stock")),
		Quiz:      handlers.NewQuizHandler(quizsvc.NewRegistry(), baseLogger.Named("handlers.quiz")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, stockSvc, calendar, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
