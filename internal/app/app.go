package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"study_tracker/internal/config"
	"study_tracker/internal/controller"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"
	"study_tracker/internal/service"
	"study_tracker/internal/util"
	"study_tracker/pkg/configwatcher"
	"study_tracker/pkg/database"
	"study_tracker/pkg/lock"
	"study_tracker/pkg/logger"
	"study_tracker/pkg/messaging"
	"study_tracker/pkg/monitoring"
	"study_tracker/pkg/secrets"
	"study_tracker/pkg/security"
	"study_tracker/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	NATS            *nats.Conn
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	// 停止路由中间件的后台清理
	stopRouter context.CancelFunc
}

type repositories struct {
	user *repository.UserRepository
}

type services struct {
	checkin  *service.CheckinService
	user     *service.UserService
	message  *service.MessageService
	reminder *service.ReminderService
}

type controllers struct {
	user     *controller.UserController
	checkin  *controller.CheckinController
	reminder *controller.ReminderController
	health   *controller.HealthController
}

// collaborators 外部依赖，测试中可直接构造
type collaborators struct {
	backend    repository.RecordBackend
	locker     lock.Locker
	generator  service.MessageGenerator
	dispatcher service.Dispatcher
	calendar   *service.Calendar
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func initRepositories(backend repository.RecordBackend) *repositories {
	return &repositories{
		user: repository.NewUserRepository(backend),
	}
}

func initServices(repos *repositories, cfg *config.Config, deps *collaborators) *services {
	s := &services{}

	s.message = service.NewMessageService(deps.generator)
	s.checkin = service.NewCheckinService(repos.user, deps.locker, deps.calendar)
	s.user = service.NewUserService(repos.user, deps.locker)
	s.reminder = service.NewReminderService(
		repos.user,
		deps.locker,
		s.message,
		deps.dispatcher,
		cfg.Notification.ChannelID,
		deps.calendar,
	)

	return s
}

func initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		user:     controller.NewUserController(s.user),
		checkin:  controller.NewCheckinController(s.checkin),
		reminder: controller.NewReminderController(s.reminder),
		health:   controller.NewHealthController(repos.user),
	}
}

func setupMiddlewares(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	router.Use(security.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(ctx, cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// newRouter 组装 gin 引擎，不依赖外部连接；ctx 结束时中间件后台任务退出
func newRouter(ctx context.Context, cfg *config.Config, c *controllers) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	setupMiddlewares(ctx, router, cfg)
	registerRoutes(router, c)
	return router
}

// requestLogger 用 zap 记录访问日志
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// initCollaborators 建立存储、锁、密钥、AI 和消息通道
func (a *App) initCollaborators(ctx context.Context) (*collaborators, error) {
	cfg := a.Config

	if cfg.Storage.Type == util.StorageDatabase {
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		a.DB = db
	}

	backend, err := repository.NewRecordBackend(cfg, a.DB)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
		a.Redis = rdb
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
	}

	source, err := secrets.NewProvider(cfg.Secrets.Provider, cfg.Secrets.Service)
	if err != nil {
		return nil, err
	}
	// 密钥只在首次使用时读取，热加载复用
	provider := secrets.NewCachedProvider(source)

	generator, err := service.NewMessageGenerator(cfg.AI, provider)
	if err != nil {
		return nil, fmt.Errorf("initialize message generator: %w", err)
	}

	// 配置热加载时重新选择生成策略
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		g, err := service.NewMessageGenerator(newCfg.AI, provider)
		if err != nil {
			logger.Log.Error("Failed to rebuild message generator", zap.Error(err))
			return
		}
		if a.services != nil {
			a.services.message.SetGenerator(g)
			logger.Log.Info("Message generator switched", zap.String("mode", g.Mode()))
		}
	})

	var dispatcher service.Dispatcher
	if cfg.Notification.Enabled {
		nc, err := messaging.Connect(cfg.Notification.NatsURL, tracing.ServiceName)
		if err != nil {
			return nil, err
		}
		a.NATS = nc

		js, err := jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("create jetstream context: %w", err)
		}
		channel := cfg.Notification.ChannelID
		if err := messaging.EnsureStream(ctx, js, cfg.Notification.Stream, []string{channel, channel + ".>"}); err != nil {
			return nil, err
		}
		dispatcher = service.NewNATSDispatcher(js)
	}

	return &collaborators{
		backend:    backend,
		locker:     locker,
		generator:  generator,
		dispatcher: dispatcher,
		calendar:   service.NewCalendar(time.Now, cfg.Location()),
	}, nil
}

func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deps, err := app.initCollaborators(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	repos := initRepositories(deps.backend)
	app.services = initServices(repos, cfg, deps)
	ctrls := initControllers(app.services, repos)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	routerCtx, stopRouter := context.WithCancel(context.Background())
	app.stopRouter = stopRouter
	app.Router = newRouter(routerCtx, cfg, ctrls)

	return app, nil
}

// startBackgroundTasks 定时提醒和配置监听
func (a *App) startBackgroundTasks(ctx context.Context) {
	if a.Config.Scheduler.Enabled && a.Config.Scheduler.Interval > 0 {
		go func() {
			ticker := time.NewTicker(a.Config.Scheduler.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					sent, err := a.services.reminder.RemindAll(ctx)
					if err != nil {
						logger.Log.Error("scheduled reminder error", zap.Error(err))
						continue
					}
					logger.Log.Info("scheduled reminders sent", zap.Int("count", sent))
				}
			}
		}()
	}

	if a.ConfigDir != "" {
		go func() {
			configFile := filepath.Join(a.ConfigDir, "config.yaml")
			err := configwatcher.WatchConfig(ctx, configFile, func(newCfg *config.Config) {
				for _, cb := range a.configCallbacks {
					cb(newCfg)
				}
			})
			if err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}
}

// HandleReminderEvent 供命令行/定时器直接调用事件入口
func (a *App) HandleReminderEvent(ctx context.Context, event model.ReminderEvent) service.EventResponse {
	return a.services.reminder.HandleEvent(ctx, event)
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	a.startBackgroundTasks(bgCtx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}

// Close 释放外部连接
func (a *App) Close() {
	if a.stopRouter != nil {
		a.stopRouter()
	}
	if a.NATS != nil {
		if err := a.NATS.Drain(); err != nil {
			logger.Log.Warn("NATS drain failed", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	logger.Log.Sync()
}
