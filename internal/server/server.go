package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"narrator/internal/config"
	"narrator/internal/handler"
	narrationHandler "narrator/internal/handler/narration"
	prosodyHandler "narrator/internal/handler/prosody"
	scanHandler "narrator/internal/handler/scan"
	storyHandler "narrator/internal/handler/story"
	"narrator/internal/narrator"
	"narrator/internal/pkg/cache"
	"narrator/internal/pkg/metrics"
	"narrator/internal/pkg/mongodb"
	"narrator/internal/pkg/speech"
	"narrator/internal/pkg/storage"
	"narrator/internal/pkg/storagefactory"
	scanRepo "narrator/internal/repository/scan"
	settingsRepo "narrator/internal/repository/settings"
	storyRepo "narrator/internal/repository/story"
	"narrator/internal/server/middleware"
	"narrator/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	mongo   *mongodb.Client
	redis   *cache.RedisCache
	metrics *metrics.Metrics

	narration service.NarrationService
}

// Services 服务依赖
// New 根据配置组装，测试可以直接注入
type Services struct {
	Prosody   service.ProsodyService
	Scan      service.ScanService
	Story     service.StoryService
	Narration service.NarrationService
}

// New 创建服务器实例
// MongoDB、Redis、存储均为可选，连接失败时退回内存实现
func New(cfg *config.Config) (*Server, error) {
	setGinMode(cfg.Server.Mode)

	// 初始化 MongoDB (可选)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(context.Background(), &cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, using in-memory repositories")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			// 创建索引
			if err := mongoClient.EnsureIndexes(context.Background()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, using in-memory analysis cache")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 初始化存储 (可选，用于导出 SSML)
	var store storage.Storage
	if cfg.Storage.Type != "" {
		s, err := storagefactory.NewStorage(context.Background(), &cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Str("type", cfg.Storage.Type).Msg("failed to initialize storage, ssml export disabled")
		} else {
			store = s
			log.Info().Str("type", s.Type()).Msg("storage initialized")
		}
	}

	m := metrics.Default()

	// 仓库
	var (
		scans    scanRepo.ScanRepository
		stories  storyRepo.StoryRepository
		settings narrator.SettingsStore
	)
	defaults := cfg.Narration.VoiceSettings()
	if mongoClient != nil {
		db := mongoClient.Database()
		scans = scanRepo.NewScanRepo(db)
		stories = storyRepo.NewStoryRepo(db)
		settings = settingsRepo.NewSettingsRepo(db, defaults)
	} else {
		scans = scanRepo.NewMemoryScanRepo()
		stories = storyRepo.NewMemoryStoryRepo()
		mem := narrator.NewMemoryStore()
		if _, err := mem.Save(context.Background(), defaults); err != nil {
			return nil, err
		}
		settings = mem
	}

	var analysisCache cache.Cache = cache.NewMemoryCache()
	if redisCache != nil {
		analysisCache = redisCache
	}

	engine := speech.NewSimulatedEngine(speech.SimulatedConfig{
		WordsPerMinute: cfg.Narration.WordsPerMinute,
		CanPause:       cfg.Narration.CanPause,
	})

	services := Services{
		Prosody:   service.NewProsodyService(analysisCache, cfg.Redis.CacheTTL, store, settings, m),
		Scan:      service.NewScanService(scans),
		Story:     service.NewStoryService(stories),
		Narration: service.NewNarrationService(engine, settings, narrator.NewBroadcaster(64), narrator.Options{Metrics: m}),
	}

	srv := &Server{
		cfg:       cfg,
		engine:    gin.New(),
		mongo:     mongoClient,
		redis:     redisCache,
		metrics:   m,
		narration: services.Narration,
	}
	srv.setupRoutes(services)
	return srv, nil
}

// NewWithServices 使用给定服务创建服务器，不连接外部依赖
func NewWithServices(cfg *config.Config, services Services, m *metrics.Metrics) *Server {
	setGinMode(cfg.Server.Mode)
	if m == nil {
		m = metrics.Default()
	}

	srv := &Server{
		cfg:       cfg,
		engine:    gin.New(),
		metrics:   m,
		narration: services.Narration,
	}
	srv.setupRoutes(services)
	return srv
}

func setGinMode(mode string) {
	switch mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(services Services) {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(s.cfg.Server.CORSOrigins...))
	s.engine.Use(middleware.Metrics(s.metrics))

	// 健康检查
	healthHandler := handler.NewHealthHandler(s.readinessChecks())
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus 指标
	if s.cfg.Metrics.Enabled {
		s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// API v1
	v1 := s.engine.Group("/api/v1")

	// 韵律分析
	if services.Prosody != nil {
		h := prosodyHandler.NewHandler(services.Prosody)
		g := v1.Group("/prosody")
		g.POST("/analyze", h.Analyze)
		g.POST("/ssml", h.GenerateSSML)
		g.GET("/exports/*key", h.DownloadSSML)
		g.POST("/speech-params", h.SpeechParams)
		g.GET("/voice-profiles", h.ListProfiles)
		g.GET("/voice-profiles/:id", h.GetProfile)
		g.POST("/voice-profiles/recommend", h.RecommendProfile)
	}

	// 提取历史
	if services.Scan != nil {
		h := scanHandler.NewHandler(services.Scan)
		v1.GET("/scans", h.ListScans)
		v1.POST("/scans", h.CreateScan)
		v1.GET("/scans/:id", h.GetScan)
		v1.DELETE("/scans/:id", h.DeleteScan)
	}

	// 书架
	if services.Story != nil {
		h := storyHandler.NewHandler(services.Story)
		v1.GET("/stories", h.ListStories)
		v1.POST("/stories", h.CreateStory)
		v1.GET("/stories/:id", h.GetStory)
		v1.PATCH("/stories/:id", h.UpdateStory)
		v1.DELETE("/stories/:id", h.DeleteStory)
		v1.POST("/stories/:id/favorite", h.ToggleFavorite)
	}

	// 朗读与设置
	if services.Narration != nil {
		h := narrationHandler.NewHandler(services.Narration)
		g := v1.Group("/narration")
		g.POST("/start", h.Start)
		g.POST("/stop", h.Stop)
		g.POST("/pause", h.Pause)
		g.POST("/resume", h.Resume)
		g.GET("/status", h.Status)
		g.GET("/voices", h.Voices)
		g.GET("/events", h.Events)

		v1.GET("/settings", h.GetSettings)
		v1.PUT("/settings", h.UpdateSettings)
	}
}

// readinessChecks 已连接的外部依赖
func (s *Server) readinessChecks() map[string]handler.Checker {
	checks := map[string]handler.Checker{}
	if s.mongo != nil {
		checks["mongo"] = s.mongo.Ping
	}
	if s.redis != nil {
		checks["redis"] = s.redis.Ping
	}
	return checks
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 先停止朗读，关闭 websocket 订阅
		if s.narration != nil {
			s.narration.Close()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}
		return err
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
