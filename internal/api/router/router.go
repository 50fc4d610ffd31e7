package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tmsftt/backend/config"
	"tmsftt/backend/internal/api/handler"
	"tmsftt/backend/internal/api/middleware"
	"tmsftt/backend/internal/service"
	"tmsftt/backend/pkg/jwt"
	"tmsftt/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(16 << 20)) // 批量登记表格上传上限 16MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 校内活动模块
			events := authorized.Group("/campus-events")
			{
				events.GET("", h.Event.ListEvents)
				events.GET("/:id", h.Event.GetEvent)
				events.GET("/:id/coefficients", h.Event.ListCoefficients)
				events.POST("",
					middleware.RoleAuth(service.RoleSchoolAdmin, service.RoleDepartmentAdmin),
					h.Event.CreateEvent)
				events.POST("/:id/review",
					middleware.RoleAuth(service.RoleSchoolAdmin),
					h.Event.ReviewEvent)
			}

			// 报名模块
			enrollments := authorized.Group("/enrollments")
			{
				enrollments.POST("", h.Enrollment.CreateEnrollment)
				enrollments.DELETE("/:id", h.Enrollment.DeleteEnrollment)
			}

			// 培训记录模块
			records := authorized.Group("/records")
			{
				records.POST("/off-campus", h.Record.CreateOffCampusRecord)
				records.GET("/without-feedback/count", h.Record.CountWithoutFeedback)
				records.GET("/:id", h.Record.GetRecord)
				records.GET("/:id/status-logs", h.Record.ListStatusLogs)
				records.POST("/:id/feedback", h.Record.CreateFeedback)
				records.POST("/:id/department-admin-review",
					middleware.RoleAuth(service.RoleDepartmentAdmin, service.RoleSchoolAdmin),
					h.Record.DepartmentAdminReview)
				records.POST("/:id/school-admin-review",
					middleware.RoleAuth(service.RoleSchoolAdmin),
					h.Record.SchoolAdminReview)
				records.POST("/:id/close",
					middleware.RoleAuth(service.RoleSchoolAdmin),
					h.Record.CloseRecord)
				records.POST("/batch-add",
					middleware.RoleAuth(service.RoleSchoolAdmin, service.RoleDepartmentAdmin),
					h.Record.BatchAddRecords)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/calendar", h.Export.ExportCalendar)
				export.GET("/workload",
					middleware.RoleAuth(service.RoleSchoolAdmin, service.RoleDepartmentAdmin),
					h.Export.ExportWorkload)
			}

			// 人事数据同步（仅校级管理员）
			authorized.POST("/sync/hr",
				middleware.RoleAuth(service.RoleSchoolAdmin),
				h.Sync.TriggerSync)
		}
	}

	return r
}
