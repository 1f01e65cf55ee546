package router

import (
	"oa_backend/internal/handlers"
	"oa_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Roles allowed to change salary and cost accounting data.
var financeRoles = []string{"Admin", "Finance"}

// SetupPublicAuthRoutes registers the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupUserAdminRoutes sets up account administration. Admin only.
func SetupUserAdminRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		userRoutes.PUT("/:id/role", authHandler.AssignRole)
	}
}

// SetupAttendanceRoutes sets up check-in/out and attendance record routes.
func SetupAttendanceRoutes(authenticatedGroup *gin.RouterGroup, attendanceHandler *handlers.AttendanceHandler) {
	attendanceRoutes := authenticatedGroup.Group("/attendance")
	{
		attendanceRoutes.POST("/checkin", attendanceHandler.CheckIn)
		attendanceRoutes.GET("/records", attendanceHandler.GetRecords)
		attendanceRoutes.POST("/records", attendanceHandler.CreateRecord)
		attendanceRoutes.PUT("/records/:id", attendanceHandler.UpdateRecord)
		attendanceRoutes.DELETE("/records/:id", attendanceHandler.DeleteRecord)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	{
		reportRoutes.GET("/attendance", reportHandler.GetAttendanceReport)
		reportRoutes.GET("/attendance/export", reportHandler.ExportAttendanceReport)
		reportRoutes.GET("/salary", reportHandler.GetSalaryReport)
	}
}

// SetupSalaryRoutes sets up the salary record routes. Reads are open to any
// authenticated user, writes need a finance role.
func SetupSalaryRoutes(authenticatedGroup *gin.RouterGroup, salaryHandler *handlers.SalaryHandler) {
	salaryRoutes := authenticatedGroup.Group("/salary/records")
	salaryRoutes.GET("", salaryHandler.GetRecords)
	salaryRoutes.GET("/:id", salaryHandler.GetRecord)

	salaryWriteRoutes := salaryRoutes.Group("")
	salaryWriteRoutes.Use(middleware.RoleAuthMiddleware(financeRoles...))
	{
		salaryWriteRoutes.POST("", salaryHandler.CreateRecord)
		salaryWriteRoutes.PUT("/:id", salaryHandler.UpdateRecord)
		salaryWriteRoutes.DELETE("/:id", salaryHandler.DeleteRecord)
	}
}

// SetupFinanceRoutes sets up cost center and cost allocation routes.
func SetupFinanceRoutes(authenticatedGroup *gin.RouterGroup, costHandler *handlers.CostHandler) {
	financeRoutes := authenticatedGroup.Group("/finance")
	financeRoutes.GET("/cost-centers", costHandler.GetCenters)
	financeRoutes.GET("/cost-allocations", costHandler.GetAllocations)

	financeWriteRoutes := financeRoutes.Group("")
	financeWriteRoutes.Use(middleware.RoleAuthMiddleware(financeRoles...))
	{
		financeWriteRoutes.POST("/cost-centers", costHandler.CreateCenter)
		financeWriteRoutes.PUT("/cost-centers/:id", costHandler.UpdateCenter)
		financeWriteRoutes.DELETE("/cost-centers/:id", costHandler.DeleteCenter)

		financeWriteRoutes.POST("/cost-allocations", costHandler.CreateAllocation)
		financeWriteRoutes.PUT("/cost-allocations/:id", costHandler.UpdateAllocation)
		financeWriteRoutes.DELETE("/cost-allocations/:id", costHandler.DeleteAllocation)
	}
}

// SetupPerformanceRoutes sets up the performance evaluation routes.
func SetupPerformanceRoutes(authenticatedGroup *gin.RouterGroup, performanceHandler *handlers.PerformanceHandler) {
	performanceRoutes := authenticatedGroup.Group("/performance")
	{
		performanceRoutes.GET("", performanceHandler.GetAll)
		performanceRoutes.POST("", performanceHandler.Create)
		performanceRoutes.PUT("/:id", performanceHandler.Update)
		performanceRoutes.DELETE("/:id", performanceHandler.Delete)
	}
}

// SetupTalentRoutes sets up the talent pool routes. Converting a talent creates a
// user account, so it is Admin only.
func SetupTalentRoutes(authenticatedGroup *gin.RouterGroup, talentHandler *handlers.TalentHandler) {
	talentRoutes := authenticatedGroup.Group("/hr/talents")
	{
		talentRoutes.GET("", talentHandler.GetTalents)
		talentRoutes.GET("/:id", talentHandler.GetTalent)
		talentRoutes.POST("", talentHandler.CreateTalent)
		talentRoutes.PUT("/:id", talentHandler.UpdateTalent)
		talentRoutes.DELETE("/:id", talentHandler.DeleteTalent)
		talentRoutes.POST("/:id/link-recruitment", talentHandler.LinkRecruitment)
		talentRoutes.POST("/:id/convert-to-onboarding", middleware.RoleAuthMiddleware("Admin"), talentHandler.ConvertToOnboarding)
	}
}
