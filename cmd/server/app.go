/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-10-17 10:35:28
 * @LastEditTime: 2025-10-22 17:48:30
 * @LastEditors: 安知鱼
 */
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"entgo.io/ent/dialect"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/anzhiyu-c/anheyu-press/internal/app/listener"
	"github.com/anzhiyu-c/anheyu-press/internal/app/middleware"
	"github.com/anzhiyu-c/anheyu-press/internal/app/task"
	"github.com/anzhiyu-c/anheyu-press/internal/infra/mq"
	"github.com/anzhiyu-c/anheyu-press/internal/infra/persistence/database"
	ent_impl "github.com/anzhiyu-c/anheyu-press/internal/infra/persistence/ent"
	"github.com/anzhiyu-c/anheyu-press/internal/infra/router"
	"github.com/anzhiyu-c/anheyu-press/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-press/internal/pkg/version"
	"github.com/anzhiyu-c/anheyu-press/pkg/config"
	article_handler "github.com/anzhiyu-c/anheyu-press/pkg/handler/article"
	category_handler "github.com/anzhiyu-c/anheyu-press/pkg/handler/category"
	user_handler "github.com/anzhiyu-c/anheyu-press/pkg/handler/user"
	"github.com/anzhiyu-c/anheyu-press/pkg/idgen"
	article_service "github.com/anzhiyu-c/anheyu-press/pkg/service/article"
	category_service "github.com/anzhiyu-c/anheyu-press/pkg/service/category"
	"github.com/anzhiyu-c/anheyu-press/pkg/service/ranking"
	user_service "github.com/anzhiyu-c/anheyu-press/pkg/service/user"
	"github.com/anzhiyu-c/anheyu-press/pkg/service/utility"
)

// shutdownTimeout 是优雅关闭 HTTP 服务的最长等待时间
const shutdownTimeout = 10 * time.Second

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg            *config.Config
	engine         *gin.Engine
	scheduler      *task.Scheduler
	rebuildJob     *task.RankingRebuildJob
	sqlDB          *sql.DB
	driver         dialect.Driver
	eventBus       *event.EventBus
	articleService *article_service.Service
	categorySvc    *category_service.Service
	userSvc        user_service.UserService
	rankingSvc     ranking.Service
}

func (a *App) PrintBanner() {
	log.Println("--------------------------------------------------------")
	log.Printf(" Anheyu Press: %s", version.GetVersionString())
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp(configPath string) (*App, func(), error) {
	ctx := context.Background()

	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfigFromFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// --- Phase 2: 初始化基础设施 ---
	sqlDB, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("创建数据库连接池失败: %w", err)
	}
	drv, err := database.NewDriver(sqlDB, cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}

	// 尝试连接 Redis（如果失败，将自动降级到内存排行榜）
	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("redis 初始化失败: %w", err)
	}

	mqPublisher, err := mq.NewPublisher(cfg.GetString(config.KeyRabbitMQURL), cfg.GetString(config.KeyRabbitMQExchange))
	if err != nil {
		closeAll(sqlDB, redisClient, nil)
		return nil, nil, err
	}

	cleanup := func() {
		closeAll(sqlDB, redisClient, mqPublisher)
	}

	// --- Phase 3: 初始化 ID 编码器 ---
	if err := InitIDEncoder(cfg); err != nil {
		cleanup()
		return nil, nil, err
	}

	// --- Phase 4: 初始化业务逻辑层 ---
	eventBus := event.NewEventBus()
	txManager := ent_impl.NewEntTransactionManager(drv)
	articleSvc := article_service.NewService(txManager, eventBus)
	categorySvc := category_service.NewService(txManager, eventBus)
	userSvc := user_service.NewUserService(txManager, eventBus)
	rankingSvc := ranking.NewWithFallback(ctx, redisClient)

	// --- Phase 5: 事件订阅 ---
	listener.NewRankingListener(eventBus, articleSvc, rankingSvc)
	if mqPublisher != nil {
		listener.NewMQForwarder(eventBus, mqPublisher)
	}

	// --- Phase 6: 定时任务 ---
	logger := task.NewLogger()
	scheduler := task.NewScheduler(logger)
	scheduler.UseLocker(utility.NewJobLockerWithFallback(redisClient))
	rebuildJob := task.NewRankingRebuildJob(articleSvc, rankingSvc, logger)
	if err := scheduler.Register(cfg.GetString(config.KeyTaskCategoryMergeCron), task.NewCategoryMergeJob(categorySvc, logger)); err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := scheduler.Register(cfg.GetString(config.KeyTaskRankingRebuildCron), rebuildJob); err != nil {
		cleanup()
		return nil, nil, err
	}

	// --- Phase 7: HTTP 层 ---
	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestID(), middleware.Cors(), middleware.AuditLog())
	if cfg.GetBool(config.KeyServerDebug) {
		engine.Use(gin.Logger())
	}

	appRouter := router.NewRouter(
		article_handler.NewHandler(articleSvc, rankingSvc),
		category_handler.NewHandler(categorySvc),
		user_handler.NewHandler(userSvc),
		middleware.NewMiddleware([]byte(cfg.GetString(config.KeyJWTSecret))),
		middleware.VoteRateLimit(cfg),
	)
	appRouter.Setup(engine)

	app := &App{
		cfg:            cfg,
		engine:         engine,
		scheduler:      scheduler,
		rebuildJob:     rebuildJob,
		sqlDB:          sqlDB,
		driver:         drv,
		eventBus:       eventBus,
		articleService: articleSvc,
		categorySvc:    categorySvc,
		userSvc:        userSvc,
		rankingSvc:     rankingSvc,
	}
	return app, cleanup, nil
}

// InitIDEncoder 使用配置中的种子初始化公共ID编码器。
// 未配置种子时随机生成，此时重启后之前签发的 Token 将无法解析。
func InitIDEncoder(cfg *config.Config) error {
	seed := cfg.GetString(config.KeyIDSeed)
	if seed == "" {
		var err error
		seed, err = idgen.GenerateRandomSeed()
		if err != nil {
			return err
		}
		log.Println("⚠️  未配置 JWT.IDSeed，已生成临时种子，重启后旧 Token 将失效")
	}
	if err := idgen.InitSqidsEncoderWithSeed(seed); err != nil {
		return fmt.Errorf("初始化 ID 编码器失败: %w", err)
	}
	log.Println("✅ ID 编码器初始化成功")
	return nil
}

func closeAll(sqlDB *sql.DB, redisClient *redis.Client, mqPublisher *mq.Publisher) {
	log.Println("执行清理操作：关闭数据库连接...")
	sqlDB.Close()

	if redisClient != nil {
		log.Println("关闭 Redis 连接...")
		redisClient.Close()
	}
	if mqPublisher != nil {
		log.Println("关闭 RabbitMQ 连接...")
		if err := mqPublisher.Close(); err != nil {
			log.Printf("关闭 RabbitMQ 连接失败: %v", err)
		}
	}
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) Driver() dialect.Driver {
	return a.driver
}

func (a *App) ArticleService() *article_service.Service {
	return a.articleService
}

func (a *App) CategoryService() *category_service.Service {
	return a.categorySvc
}

func (a *App) UserService() user_service.UserService {
	return a.userSvc
}

// EventBus 返回事件总线，用于发布和订阅事件
func (a *App) EventBus() *event.EventBus {
	return a.eventBus
}

// Run 启动定时任务和 HTTP 服务，收到 SIGINT/SIGTERM 后优雅退出
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.rebuildJob.Rebuild(ctx); err != nil {
		log.Printf("⚠️  启动时重建排行榜失败: %v", err)
	}
	a.scheduler.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("应用程序启动成功，正在监听端口: %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("收到退出信号，正在关闭 HTTP 服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Stop 停止后台任务并处理完已入队的事件
func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		log.Println("任务调度器已停止。")
	}
	if a.eventBus != nil {
		a.eventBus.Shutdown()
	}
}
