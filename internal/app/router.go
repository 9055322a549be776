package app

import (
	"course_market_backend/internal/middleware"
	"course_market_backend/internal/model"
	"course_market_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware())
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)

		public.GET("/notes", c.note.ListNotes)
		public.GET("/notes/:id", c.note.GetNote)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.GetProfile)

	group.POST("/courses/:id/enroll", c.enrollment.Enroll)
	group.GET("/enrollments", c.enrollment.ListMine)

	group.GET("/progress/:courseId", c.progress.GetProgress)
	group.POST("/progress/:courseId/units/:unitId", c.progress.RecordProgress)
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.POST("/notes", c.note.CreateNote)
		teacher.DELETE("/notes/:id", c.note.DeleteNote)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	admin := router.Group("/api")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(model.Admin))
	{
		admin.DELETE("/courses/:id", c.course.DeleteCourse)
		admin.PATCH("/admin/enrollments/:id/status", c.enrollment.UpdateStatus)
		admin.POST("/admin/progress/reconcile", c.reconcile.Run)
		admin.GET("/admin/progress/reconcile/last", c.reconcile.Last)
	}
}
