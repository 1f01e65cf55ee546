package router

import (
	"database/sql"
	"net/http"

	"oa_backend/internal/config"
	"oa_backend/internal/handlers"
	"oa_backend/internal/middleware"
	"oa_backend/internal/repositories"
	"oa_backend/internal/services"
	"oa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config) {
	utils.RegisterValidators()

	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	salaryRepo := repositories.NewSalaryRepository(db)
	costRepo := repositories.NewCostRepository(db)
	performanceRepo := repositories.NewPerformanceRepository(db)
	talentRepo := repositories.NewTalentRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db, cfg.JWTSecret, cfg.JWTTTL)
	attendanceService := services.NewAttendanceService(attendanceRepo, db, cfg.Location)
	reportService := services.NewReportService(attendanceRepo, salaryRepo, cfg.Location)
	salaryService := services.NewSalaryService(salaryRepo, db)
	costService := services.NewCostService(costRepo, db, cfg.Location)
	performanceService := services.NewPerformanceService(performanceRepo, db)
	talentService := services.NewTalentService(talentRepo, authRepo, db)

	Register(engine, []byte(cfg.JWTSecret), Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Attendance:  handlers.NewAttendanceHandler(attendanceService),
		Report:      handlers.NewReportHandler(reportService),
		Salary:      handlers.NewSalaryHandler(salaryService),
		Cost:        handlers.NewCostHandler(costService),
		Performance: handlers.NewPerformanceHandler(performanceService),
		Talent:      handlers.NewTalentHandler(talentService),
	})
}

// Handlers bundles every HTTP handler mounted by Register.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Attendance  *handlers.AttendanceHandler
	Report      *handlers.ReportHandler
	Salary      *handlers.SalaryHandler
	Cost        *handlers.CostHandler
	Performance *handlers.PerformanceHandler
	Talent      *handlers.TalentHandler
}

// Register mounts the routes under /api/v1. Everything except /auth/login,
// /auth/register and /ping passes through AuthMiddleware.
func Register(engine *gin.Engine, jwtSecret []byte, h Handlers) {
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := engine.Group("/api/v1")
	SetupPublicAuthRoutes(apiV1.Group("/auth"), h.Auth)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(jwtSecret))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), h.Auth)
		SetupUserAdminRoutes(authenticated, h.Auth)
		SetupAttendanceRoutes(authenticated, h.Attendance)
		SetupReportRoutes(authenticated, h.Report)
		SetupSalaryRoutes(authenticated, h.Salary)
		SetupFinanceRoutes(authenticated, h.Cost)
		SetupPerformanceRoutes(authenticated, h.Performance)
		SetupTalentRoutes(authenticated, h.Talent)
	}
}
