package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/profman23/fluffnwoof-sub005/internal/application/billing"
	directoryapp "github.com/profman23/fluffnwoof-sub005/internal/application/directory"
	schedulingapp "github.com/profman23/fluffnwoof-sub005/internal/application/scheduling"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/sequence"
	"github.com/profman23/fluffnwoof-sub005/internal/infrastructure/config"
	"github.com/profman23/fluffnwoof-sub005/internal/infrastructure/event"
	"github.com/profman23/fluffnwoof-sub005/internal/infrastructure/logger"
	"github.com/profman23/fluffnwoof-sub005/internal/infrastructure/persistence"
	"github.com/profman23/fluffnwoof-sub005/internal/interfaces/http/handler"
	"github.com/profman23/fluffnwoof-sub005/internal/interfaces/http/middleware"
	"github.com/profman23/fluffnwoof-sub005/internal/interfaces/http/router"
)

//	@title			FluffNWoof Backend API
//	@version		1.0
//	@description	Veterinary clinic management backend - invoice ledger and sequential code allocation

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FluffNWoof Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	counterRepo := persistence.NewGormCounterRepository(db.DB)
	ownerRepo := persistence.NewGormOwnerRepository(db.DB)
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Sequence allocator shared by owner, patient and invoice numbering
	allocator := sequence.NewAllocator(counterRepo, log,
		sequence.WithMaxRetries(cfg.Allocator.MaxRetries),
		sequence.WithTransientChecker(persistence.IsTransientError),
	)

	// Domain event bus with the activity log subscribed
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(log))

	// Initialize application services
	txScope := persistence.NewGormTransactionScope(db.DB)
	invoiceService := billingapp.NewInvoiceService(txScope, invoiceRepo, ownerRepo, allocator, log,
		billingapp.WithEventBus(eventBus))
	registryService := directoryapp.NewRegistryService(ownerRepo, patientRepo, allocator, log,
		directoryapp.WithEventBus(eventBus))
	appointmentService := schedulingapp.NewAppointmentService(appointmentRepo, patientRepo, log)

	// Initialize HTTP handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	ownerHandler := handler.NewOwnerHandler(registryService)
	patientHandler := handler.NewPatientHandler(registryService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Billing domain (invoices, payments)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.POST("/invoices/:id/items", invoiceHandler.AddItem)
	billingRoutes.PUT("/invoices/:id/items/:item_id", invoiceHandler.UpdateItem)
	billingRoutes.DELETE("/invoices/:id/items/:item_id", invoiceHandler.RemoveItem)
	billingRoutes.POST("/invoices/:id/payments", invoiceHandler.AddPayment)
	billingRoutes.DELETE("/invoices/:id/payments/:payment_id", invoiceHandler.RemovePayment)
	billingRoutes.POST("/invoices/:id/finalize", invoiceHandler.Finalize)
	billingRoutes.PUT("/invoices/:id/notes", invoiceHandler.UpdateNotes)
	billingRoutes.GET("/appointments/:id/invoice", invoiceHandler.GetByAppointment)

	// Directory domain (owners, patients)
	directoryRoutes := router.NewDomainGroup("directory", "/directory")
	directoryRoutes.POST("/owners", ownerHandler.Register)
	directoryRoutes.GET("/owners", ownerHandler.List)
	directoryRoutes.GET("/owners/:id", ownerHandler.GetByID)
	directoryRoutes.GET("/owners/:id/patients", ownerHandler.ListPatients)
	directoryRoutes.POST("/patients", patientHandler.Register)
	directoryRoutes.GET("/patients/:id", patientHandler.GetByID)

	// Scheduling domain (appointments)
	schedulingRoutes := router.NewDomainGroup("scheduling", "/scheduling")
	schedulingRoutes.POST("/appointments", appointmentHandler.Schedule)
	schedulingRoutes.GET("/appointments/:id", appointmentHandler.GetByID)
	schedulingRoutes.POST("/appointments/:id/start", appointmentHandler.Start)
	schedulingRoutes.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
	schedulingRoutes.GET("/patients/:id/appointments", appointmentHandler.ListByPatient)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(billingRoutes).
		Register(directoryRoutes).
		Register(schedulingRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
