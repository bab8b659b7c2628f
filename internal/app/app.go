package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/controller"
	"github.com/vinsolit/lendenbook/internal/core"
	"github.com/vinsolit/lendenbook/internal/events"
	eventskafka "github.com/vinsolit/lendenbook/internal/events/kafka"
	"github.com/vinsolit/lendenbook/internal/middlewareinternal"
	"github.com/vinsolit/lendenbook/internal/repository"
	"github.com/vinsolit/lendenbook/internal/service"
)

type App struct {
	cfg    *Config
	Router *chi.Mux
	db     *repository.Database
	Logger *zap.Logger
	Server *http.Server

	authService   core.AuthService
	ledgerService core.LedgerService
	exportService core.ExportService
	adminService  core.AdminService
}

func New(cfg *Config) (*App, error) {
	app := &App{
		cfg:    cfg,
		Router: chi.NewRouter(),
		Logger: zap.L(),
	}

	if err := app.initDB(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initRouter()

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	a.Server = &http.Server{
		Addr:    a.cfg.RunAddress,
		Handler: a.Router,
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	return a.shutdown()
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) initDB() error {
	db, err := repository.NewDatabase(repository.DatabaseConfig{Path: a.cfg.DatabasePath})
	if err != nil {
		a.Logger.Error("Database initialization failed",
			zap.String("path", a.cfg.DatabasePath),
			zap.Error(err))
		return fmt.Errorf("database initialization failed: %w", err)
	}

	a.db = db
	a.Logger.Info("Database initialized successfully",
		zap.String("path", a.cfg.DatabasePath))
	return nil
}

func (a *App) initServices() error {
	userRepo := repository.NewUserRepository(a.db)
	recordRepo := repository.NewRecordRepository(a.db)

	var publisher events.Publisher = events.NoopPublisher{}
	if len(a.cfg.KafkaBrokers) > 0 {
		publisher = eventskafka.NewPublisher(a.cfg.KafkaBrokers)
		a.Logger.Info("Kafka event publisher enabled",
			zap.Strings("brokers", a.cfg.KafkaBrokers))
	}

	a.authService = service.NewAuthService(userRepo, a.cfg.JWTSecretKey, a.cfg.AdminPassword)
	a.ledgerService = service.NewLedgerService(recordRepo, publisher, a.Logger)
	a.exportService = service.NewExportService(recordRepo)
	a.adminService = service.NewAdminService(userRepo, recordRepo, a.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.authService.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	return nil
}

func (a *App) initRouter() {
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(middleware.Logger)
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.Compress(5))

	authController := controller.NewAuthController(a.authService, a.Logger)
	recordController := controller.NewRecordController(a.ledgerService, a.exportService, a.Logger)
	adminController := controller.NewAdminController(a.adminService, a.Logger)

	// Public routes
	a.Router.Post("/api/user/register", authController.Register)
	a.Router.Post("/api/user/login", authController.Login)
	a.Router.Post("/api/user/password/reset", authController.ResetPassword)

	// Protected routes
	a.Router.Group(func(r chi.Router) {
		r.Use(middlewareinternal.JWTAuthMiddleware(a.authService))

		r.Get("/api/user/records", recordController.GetRecords)
		r.Post("/api/user/records", recordController.AddRecord)
		r.Get("/api/user/records/export", recordController.ExportCSV)
		r.Get("/api/user/records/payee/{payee}", recordController.GetPayeeRecords)
		r.Delete("/api/user/records/payee/{payee}", recordController.DeletePayeeRecords)
		r.Delete("/api/user/records/{id}", recordController.DeleteRecord)
		r.Get("/api/user/balances", recordController.GetBalances)

		r.Group(func(r chi.Router) {
			r.Use(middlewareinternal.RequireAdmin)

			r.Get("/api/admin/records", adminController.GetAllRecords)
			r.Get("/api/admin/users", adminController.GetUsers)
			r.Delete("/api/admin/users/{username}", adminController.DeleteUser)
		})
	})
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.Server.Shutdown(ctx)
}
