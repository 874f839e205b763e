package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"studyplan_backend/internal/config"
	"studyplan_backend/internal/controller"
	"studyplan_backend/internal/repository"
	"studyplan_backend/internal/service"
	"studyplan_backend/pkg/configwatcher"
	"studyplan_backend/pkg/database"
	"studyplan_backend/pkg/logger"
	"studyplan_backend/pkg/monitoring"
	"studyplan_backend/pkg/security"
	"studyplan_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	persona    *repository.PersonaRepository
	content    *repository.ContentRepository
	progress   *repository.ProgressRepository
	examConfig *repository.ExamConfigRepository
	plan       *repository.PlanRepository
	snapshots  *repository.SnapshotCache
}

type services struct {
	auth     *service.AuthService
	content  *service.ContentService
	progress *service.ProgressService
	plan     *service.PlanService
}

type controllers struct {
	auth     *controller.AuthController
	content  *controller.ContentController
	progress *controller.ProgressController
	plan     *controller.PlanController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	snapshotTTL := time.Duration(cfg.Plan.SnapshotTTLMinutes) * time.Minute
	return &repositories{
		user:       repository.NewUserRepository(db),
		persona:    repository.NewPersonaRepository(db),
		content:    repository.NewContentRepository(db),
		progress:   repository.NewProgressRepository(db),
		examConfig: repository.NewExamConfigRepository(db),
		plan:       repository.NewPlanRepository(db),
		snapshots:  repository.NewSnapshotCache(rdb, snapshotTTL),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, repos.persona, cfg)
	s.content = service.NewContentService(repos.content)
	s.progress = service.NewProgressService(repos.content, repos.progress, repos.snapshots)
	s.plan = service.NewPlanService(
		s.content,
		s.progress,
		repos.persona,
		repos.examConfig,
		repos.plan,
		cfg.Plan,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		content:  controller.NewContentController(s.content),
		progress: controller.NewProgressController(s.progress),
		plan:     controller.NewPlanController(s.plan),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("studyplan-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	// Hot-reload config in debug mode; release deployments restart instead.
	if cfg.Server.Mode == "debug" {
		go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
			updated, ok := newCfg.(*config.Config)
			if !ok {
				return
			}
			logger.Log.Info("Config reloaded")
			for _, cb := range app.configCallbacks {
				cb(updated)
			}
		})
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
