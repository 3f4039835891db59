// cmd/server/app.go
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/qingshu-lab/qingshu-app/internal/app/middleware"
	"github.com/qingshu-lab/qingshu-app/internal/app/task"
	"github.com/qingshu-lab/qingshu-app/internal/infra/persistence/database"
	"github.com/qingshu-lab/qingshu-app/internal/infra/persistence/sqlrepo"
	"github.com/qingshu-lab/qingshu-app/internal/infra/router"
	"github.com/qingshu-lab/qingshu-app/internal/infra/storage"
	"github.com/qingshu-lab/qingshu-app/internal/pkg/uri"
	"github.com/qingshu-lab/qingshu-app/pkg/config"
	article_handler "github.com/qingshu-lab/qingshu-app/pkg/handler/article"
	article_service "github.com/qingshu-lab/qingshu-app/pkg/service/article"
	"github.com/qingshu-lab/qingshu-app/pkg/service/auditlog"
	category_service "github.com/qingshu-lab/qingshu-app/pkg/service/category"
	"github.com/qingshu-lab/qingshu-app/pkg/service/extractor"
	file_service "github.com/qingshu-lab/qingshu-app/pkg/service/file"
	"github.com/qingshu-lab/qingshu-app/pkg/service/security"
	"github.com/qingshu-lab/qingshu-app/pkg/service/setting"
	tag_service "github.com/qingshu-lab/qingshu-app/pkg/service/tag"
	"github.com/qingshu-lab/qingshu-app/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg       *config.Config
	engine    *gin.Engine
	sqlDB     *sql.DB
	scheduler *task.Scheduler
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp() (*App, func(), error) {
	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// --- Phase 2: 初始化基础设施 ---
	sqlDB, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("创建数据库连接池失败: %w", err)
	}
	if err := database.Migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("数据库初始化失败: %w", err)
	}

	// 尝试连接 Redis（如果失败，将自动降级到内存缓存）
	redisClient, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("redis 初始化失败: %w", err)
	}

	cleanup := func() {
		log.Println("执行清理操作：关闭数据库连接...")
		sqlDB.Close()
		if redisClient != nil {
			log.Println("关闭 Redis 连接...")
			redisClient.Close()
		}
	}

	uploadDir := cfg.GetString(config.KeyUploadDir)
	if uploadDir == "" {
		uploadDir = "data/uploads"
	}
	localStorage, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		return nil, cleanup, fmt.Errorf("初始化本地存储失败: %w", err)
	}
	publicPrefix := cfg.GetString(config.KeyUploadPublicPrefix)
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	uriResolver := uri.NewResolver(publicPrefix)

	// --- Phase 3: 初始化数据仓库层 ---
	articleRepo := sqlrepo.NewArticleRepository(sqlDB)
	categoryRepo := sqlrepo.NewCategoryRepository(sqlDB)
	tagRepo := sqlrepo.NewTagRepository(sqlDB)
	settingRepo := sqlrepo.NewSettingRepository(sqlDB)
	uploadFileRepo := sqlrepo.NewUploadFileRepository(sqlDB)
	logRepo := sqlrepo.NewLogRepository(sqlDB)

	// --- Phase 4: 初始化业务逻辑层 ---
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)
	settingSvc := setting.NewSettingService(settingRepo)
	if err := settingSvc.LoadAllSettings(context.Background()); err != nil {
		log.Printf("警告: 初始加载站点配置失败: %v", err)
	}

	auditSvc := auditlog.NewService(logRepo)
	guard := security.NewGuard(settingSvc, auditSvc)
	importer := extractor.NewImporter(extractor.NewReadabilityExtractor())
	tagSvc := tag_service.NewService(tagRepo)
	categorySvc := category_service.NewService(categoryRepo, cacheSvc)
	fileSvc := file_service.NewService(uploadFileRepo, localStorage, uriResolver)
	articleSvc := article_service.NewService(articleRepo, tagSvc, categorySvc, fileSvc, settingSvc)

	// --- Phase 5: 初始化 HTTP 层 ---
	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()

	sessionSecret := cfg.GetString(config.KeySessionSecret)
	if sessionSecret == "" {
		return nil, cleanup, fmt.Errorf("缺少会话密钥配置 %s", config.KeySessionSecret)
	}
	store := cookie.NewStore([]byte(sessionSecret))
	engine.Use(sessions.Sessions("qingshu_session", store))

	jwtSecret := cfg.GetString(config.KeyJWTSecret)
	if jwtSecret == "" {
		return nil, cleanup, fmt.Errorf("缺少 JWT 密钥配置 %s", config.KeyJWTSecret)
	}
	mw := middleware.NewMiddleware([]byte(jwtSecret))

	articleHandler := article_handler.NewHandler(articleSvc, categorySvc, tagSvc, fileSvc, importer, guard)
	appRouter := router.NewRouter(mw, articleHandler)
	appRouter.Setup(engine)

	// 上传文件的静态访问
	engine.Static(publicPrefix, uploadDir)

	// --- Phase 6: 初始化定时任务 ---
	scheduler := task.NewScheduler(articleRepo)
	scheduler.RegisterJobs()

	app := &App{
		cfg:       cfg,
		engine:    engine,
		sqlDB:     sqlDB,
		scheduler: scheduler,
	}
	fullCleanup := func() {
		app.scheduler.Stop()
		cleanup()
	}
	return app, fullCleanup, nil
}

// Run 启动定时任务与 HTTP 服务。
func (a *App) Run() error {
	a.scheduler.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}
