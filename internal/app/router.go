package app

import (
	"skillpath_backend/docs"
	"skillpath_backend/internal/config"
	"skillpath_backend/internal/middleware"
	"skillpath_backend/internal/model"
	"skillpath_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 学员接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(&cfg.JWT))
	{
		a.registerCourseRoutes(authGroup, c)
		a.registerInternshipRoutes(authGroup, c)
	}

	// 3. 教师与管理员接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.GET("/courses", c.catalog.ListCourses)
		public.GET("/courses/:id", c.catalog.Outline(model.ScopeCourse))
		public.GET("/internships", c.catalog.ListInternships)
		public.GET("/internships/:id", c.catalog.Outline(model.ScopeInternship))

		public.GET("/certificates/verify/:code", c.courseCertificate.Verify)
	}
}

func (a *App) registerCourseRoutes(rg *gin.RouterGroup, c *controllers) {
	course := rg.Group("/courses/:id")
	{
		course.POST("/enroll", c.courseLearning.Enroll)
		course.GET("/learn", c.courseLearning.View)
		course.GET("/lessons/:unitId", c.courseLearning.Unit)
		course.POST("/lessons/:unitId/complete", c.courseLearning.Complete)

		course.GET("/quiz", c.quiz.Questions(model.ScopeCourse, model.KindQuiz))
		course.POST("/quiz", c.quiz.Submit(model.ScopeCourse, model.KindQuiz))
		course.GET("/quiz/attempt", c.quiz.Attempt(model.ScopeCourse, model.KindQuiz))

		course.POST("/certificate", c.courseCertificate.Issue)
		course.GET("/certificate", c.courseCertificate.Mine)
	}
}

func (a *App) registerInternshipRoutes(rg *gin.RouterGroup, c *controllers) {
	internship := rg.Group("/internships/:id")
	{
		internship.POST("/enroll", c.internshipLearning.Enroll)
		internship.GET("/learn", c.internshipLearning.View)
		internship.GET("/tabs/:unitId", c.internshipLearning.Unit)
		internship.POST("/tabs/:unitId/complete", c.internshipLearning.Complete)

		internship.GET("/sections/:sectionId/quiz", c.quiz.Questions(model.ScopeInternship, model.KindSectionQuiz))
		internship.POST("/sections/:sectionId/quiz", c.quiz.Submit(model.ScopeInternship, model.KindSectionQuiz))
		internship.GET("/sections/:sectionId/quiz/attempt", c.quiz.Attempt(model.ScopeInternship, model.KindSectionQuiz))

		internship.GET("/final-exam", c.quiz.Questions(model.ScopeInternship, model.KindFinalExam))
		internship.POST("/final-exam", c.quiz.Submit(model.ScopeInternship, model.KindFinalExam))
		internship.GET("/final-exam/attempt", c.quiz.Attempt(model.ScopeInternship, model.KindFinalExam))

		internship.POST("/project", c.project.Submit)
		internship.GET("/project", c.project.Mine)

		internship.POST("/certificate", c.internshipCertificate.Issue)
		internship.GET("/certificate", c.internshipCertificate.Mine)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(&cfg.JWT), middleware.RoleMiddleware(model.Instructor))
	{
		admin.GET("/courses/:id/progress", c.admin.Progress(model.ScopeCourse))
		admin.GET("/internships/:id/progress", c.admin.Progress(model.ScopeInternship))
		admin.GET("/internships/:id/submissions", c.project.List)
		admin.POST("/submissions/:id/review", c.project.Review)

		adminOnly := admin.Group("/")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.POST("/import", c.admin.ImportContent)
			adminOnly.POST("/enrollments", c.admin.GrantEnrollment)
		}
	}
}
