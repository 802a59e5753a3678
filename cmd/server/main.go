package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/scolaris/scolaris-backend/internal/config"
	"github.com/scolaris/scolaris-backend/internal/database"
	"github.com/scolaris/scolaris-backend/internal/handler"
	"github.com/scolaris/scolaris-backend/internal/logger"
	"github.com/scolaris/scolaris-backend/internal/repository"
	"github.com/scolaris/scolaris-backend/internal/router"
	"github.com/scolaris/scolaris-backend/internal/service"
	"github.com/scolaris/scolaris-backend/internal/validator"
	"github.com/scolaris/scolaris-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Scolaris Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	schoolRepo := repository.NewSchoolRepository(pool)
	classGroupRepo := repository.NewClassGroupRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	guardianRepo := repository.NewGuardianRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	evaluationRepo := repository.NewEvaluationRepository(pool)
	busRouteRepo := repository.NewBusRouteRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	schoolService := service.NewSchoolService(schoolRepo, log)
	classGroupService := service.NewClassGroupService(classGroupRepo)
	studentService := service.NewStudentService(studentRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, classGroupRepo, rdb, log)
	guardianService := service.NewGuardianService(guardianRepo, log)
	activityService := service.NewActivityService(activityRepo)
	evaluationService := service.NewEvaluationService(evaluationRepo)
	busRouteService := service.NewBusRouteService(busRouteRepo, studentRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, studentRepo, log)
	auditService := service.NewAuditService(auditRepo, rdb, log)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userRepo),
		School:     handler.NewSchoolHandler(schoolService, auditService),
		ClassGroup: handler.NewClassGroupHandler(classGroupService, auditService),
		Student:    handler.NewStudentHandler(studentService, auditService),
		Attendance: handler.NewAttendanceHandler(attendanceService, auditService),
		Guardian:   handler.NewGuardianHandler(guardianService, auditService),
		Activity:   handler.NewActivityHandler(activityService, auditService),
		Evaluation: handler.NewEvaluationHandler(evaluationService, auditService),
		BusRoute:   handler.NewBusRouteHandler(busRouteService, auditService),
		Invoice:    handler.NewInvoiceHandler(invoiceService, auditService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Audit:      handler.NewAuditHandler(auditService),
		WS:         handler.NewWSHandler(rdb, classGroupService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	auditWorker := worker.NewAuditWorker(auditRepo, rdb, log)
	go auditWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the audit worker and let it flush its buffer.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
