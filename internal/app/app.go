package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"skillpath_backend/internal/config"
	"skillpath_backend/internal/controller"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/configwatcher"
	"skillpath_backend/pkg/database"
	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"
	"skillpath_backend/pkg/security"
	"skillpath_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	limiter         *security.RateLimiter
	shutdownTracer  func(context.Context) error
	configCallbacks []configwatcher.Reloader
}

type repositories struct {
	course      *repository.CourseRepository
	internship  *repository.InternshipRepository
	progress    *repository.ProgressRepository
	enrollment  *repository.EnrollmentRepository
	quiz        *repository.QuizRepository
	certificate *repository.CertificateRepository
	project     *repository.ProjectRepository
}

type services struct {
	storage     service.StorageProvider
	content     *service.ContentService
	enrollment  *service.EnrollmentService
	tracker     *service.Tracker
	learning    *service.LearningService
	quiz        *service.QuizService
	certificate *service.CertificateService
	project     *service.ProjectService
	imports     *service.ImportService
}

type controllers struct {
	catalog               *controller.CatalogController
	courseLearning        *controller.LearningController
	internshipLearning    *controller.LearningController
	quiz                  *controller.QuizController
	courseCertificate     *controller.CertificateController
	internshipCertificate *controller.CertificateController
	project               *controller.ProjectController
	admin                 *controller.AdminController
	health                *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback configwatcher.Reloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		course:      repository.NewCourseRepository(db),
		internship:  repository.NewInternshipRepository(db),
		progress:    repository.NewProgressRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		quiz:        repository.NewQuizRepository(db),
		certificate: repository.NewCertificateRepository(db),
		project:     repository.NewProjectRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	var cache service.ContentCache
	if rdb != nil {
		cache = service.NewRedisContentCache(rdb)
	}

	s.storage = service.NewStorageProvider(&cfg.Storage)
	s.content = service.NewContentService(repos.course, repos.internship, cache, cfg.OutlineTTL())
	s.enrollment = service.NewEnrollmentService(repos.enrollment, s.content)
	s.tracker = service.NewTracker(s.content, s.enrollment, repos.progress, repos.certificate)
	s.learning = service.NewLearningService(s.tracker, repos.quiz, repos.project, repos.enrollment)
	s.quiz = service.NewQuizService(s.tracker, repos.quiz)
	s.certificate = service.NewCertificateService(s.tracker, repos.certificate, repos.quiz, repos.project, s.storage)
	s.project = service.NewProjectService(s.tracker, repos.project)
	s.imports = service.NewImportService(repos.course, repos.internship, repos.quiz, s.content)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		catalog:               controller.NewCatalogController(s.content),
		courseLearning:        controller.NewLearningController(model.ScopeCourse, s.learning, s.enrollment),
		internshipLearning:    controller.NewLearningController(model.ScopeInternship, s.learning, s.enrollment),
		quiz:                  controller.NewQuizController(s.quiz),
		courseCertificate:     controller.NewCertificateController(model.ScopeCourse, s.certificate),
		internshipCertificate: controller.NewCertificateController(model.ScopeInternship, s.certificate),
		project:               controller.NewProjectController(s.project),
		admin:                 controller.NewAdminController(s.imports, s.enrollment, s.learning),
		health:                controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, window)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 组装仓储、服务与路由；数据库与 Redis 由调用方创建，rdb 可为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(logger.ApplyConfig)
	app.RegisterConfigCallback(func(next *config.Config) {
		window := time.Duration(next.RateLimit.WindowMinutes) * time.Minute
		app.limiter.Configure(next.RateLimit.MaxRequests, window)
		logger.Log.Info("rate limit updated",
			zap.Int("maxRequests", next.RateLimit.MaxRequests),
			zap.Duration("window", window),
		)
	})

	return app
}

// NewApp 按配置连接数据库、Redis 与追踪后端
func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式下只有显式指定才迁移
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	shutdown, err := tracing.InitTracer(context.Background(), &cfg.Tracing)
	if err != nil {
		logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	app := New(cfg, db, rdb)
	app.ConfigDir = configDir
	app.shutdownTracer = shutdown
	return app
}

// Import 导入文件或目录中的内容，供命令行使用
func (a *App) Import(ctx context.Context, path string) ([]service.ImportResult, error) {
	return a.services.imports.ImportPath(ctx, path)
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.limiter.Run(ctx)
	if a.ConfigDir != "" {
		go func() {
			if err := configwatcher.Watch(ctx, a.ConfigDir, a.configCallbacks...); err != nil {
				logger.Log.Error("config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	_ = logger.Log.Sync()
}
