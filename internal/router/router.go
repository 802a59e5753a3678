package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scolaris/scolaris-backend/internal/config"
	"github.com/scolaris/scolaris-backend/internal/handler"
	"github.com/scolaris/scolaris-backend/internal/middleware"
	"github.com/scolaris/scolaris-backend/internal/response"
	"github.com/scolaris/scolaris-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	School     *handler.SchoolHandler
	ClassGroup *handler.ClassGroupHandler
	Student    *handler.StudentHandler
	Attendance *handler.AttendanceHandler
	Guardian   *handler.GuardianHandler
	Activity   *handler.ActivityHandler
	Evaluation *handler.EvaluationHandler
	BusRoute   *handler.BusRouteHandler
	Invoice    *handler.InvoiceHandler
	Dashboard  *handler.DashboardHandler
	Audit      *handler.AuditHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Staff Group (JWT) ──────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))
	{
		// Schools
		schools := api.Group("/schools")
		{
			schools.GET("", handlers.School.List)
			schools.GET("/:id", handlers.School.Get)
			schools.POST("", handlers.School.Create)
			schools.PUT("/:id", handlers.School.Update)
			schools.DELETE("/:id", middleware.RequireAdmin(), handlers.School.Archive)
		}

		// Class groups and attendance sheets
		classGroups := api.Group("/class-groups")
		{
			classGroups.GET("", handlers.ClassGroup.List)
			classGroups.GET("/:id", handlers.ClassGroup.Get)
			classGroups.POST("", handlers.ClassGroup.Create)
			classGroups.PUT("/:id", handlers.ClassGroup.Update)
			classGroups.DELETE("/:id", middleware.RequireAdmin(), handlers.ClassGroup.Archive)

			classGroups.PUT("/:id/attendance", handlers.Attendance.BatchUpsert)
			classGroups.GET("/:id/attendance", handlers.Attendance.Sheet)
		}

		// Students
		students := api.Group("/students")
		{
			students.GET("", handlers.Student.List)
			students.GET("/:id", handlers.Student.Get)
			students.POST("", handlers.Student.Create)
			students.PUT("/:id", handlers.Student.Update)
			students.DELETE("/:id", middleware.RequireAdmin(), handlers.Student.Archive)

			students.GET("/:id/attendance", handlers.Attendance.History)
			students.GET("/:id/evaluations", handlers.Evaluation.ListForStudent)
			students.POST("/:id/evaluations", handlers.Evaluation.Create)
		}

		// Evaluations addressed directly
		evaluations := api.Group("/evaluations")
		{
			evaluations.PUT("/:id", handlers.Evaluation.Update)
			evaluations.DELETE("/:id", handlers.Evaluation.Delete)
		}

		// Guardians
		guardians := api.Group("/guardians")
		{
			guardians.GET("", handlers.Guardian.List)
			guardians.GET("/:id", handlers.Guardian.Get)
			guardians.POST("", handlers.Guardian.Create)
			guardians.PUT("/:id", handlers.Guardian.Update)
			guardians.DELETE("/:id", middleware.RequireAdmin(), handlers.Guardian.Archive)

			guardians.GET("/:id/students", handlers.Guardian.Students)
			guardians.POST("/:id/students", handlers.Guardian.LinkStudent)
			guardians.DELETE("/:id/students/:studentId", handlers.Guardian.UnlinkStudent)
			guardians.POST("/:id/merge", middleware.RequireAdmin(), handlers.Guardian.Merge)
		}

		// Activities
		activities := api.Group("/activities")
		{
			activities.GET("", handlers.Activity.List)
			activities.GET("/:id", handlers.Activity.Get)
			activities.POST("", handlers.Activity.Create)
			activities.PUT("/:id", handlers.Activity.Update)
			activities.DELETE("/:id", middleware.RequireAdmin(), handlers.Activity.Archive)

			activities.GET("/:id/registrations", handlers.Activity.RegisteredStudents)
			activities.POST("/:id/registrations", handlers.Activity.RegisterStudent)
			activities.DELETE("/:id/registrations/:studentId", handlers.Activity.UnregisterStudent)
		}

		// Bus routes
		busRoutes := api.Group("/bus-routes")
		{
			busRoutes.GET("", handlers.BusRoute.List)
			busRoutes.GET("/:id", handlers.BusRoute.Get)
			busRoutes.POST("", handlers.BusRoute.Create)
			busRoutes.PUT("/:id", handlers.BusRoute.Update)
			busRoutes.DELETE("/:id", middleware.RequireAdmin(), handlers.BusRoute.Archive)

			busRoutes.POST("/:id/students", handlers.BusRoute.AssignStudent)
			busRoutes.DELETE("/students/:studentId", handlers.BusRoute.UnassignStudent)
		}

		// Invoices
		invoices := api.Group("/invoices")
		{
			invoices.GET("", handlers.Invoice.List)
			invoices.GET("/:id", handlers.Invoice.Get)
			invoices.POST("", handlers.Invoice.Issue)
			invoices.POST("/:id/payments", handlers.Invoice.RecordPayment)
			invoices.GET("/:id/payments", handlers.Invoice.Payments)
			invoices.POST("/:id/cancel", middleware.RequireAdmin(), handlers.Invoice.Cancel)
		}

		// Dashboard
		api.GET("/dashboard", handlers.Dashboard.Summary)

		// Audit trail (admin only)
		api.GET("/audit-logs", middleware.RequireAdmin(), handlers.Audit.List)
	}

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/class-groups/:id/attendance/feed", handlers.WS.AttendanceFeedStream)
	}

	return router
}
