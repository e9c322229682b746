package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pomelo/internal/cache"
	"pomelo/internal/config"
	"pomelo/internal/handler"
	readingHandler "pomelo/internal/handler/reading"
	"pomelo/internal/library"
	"pomelo/internal/pkg/kv"
	"pomelo/internal/pkg/kvfactory"
	"pomelo/internal/provider"
	"pomelo/internal/reader"
	"pomelo/internal/server/middleware"
)

// Server HTTP 服务器
type Server struct {
	cfg         *config.Config
	engine      *gin.Engine
	store       kv.Store
	coordinator *reader.Coordinator
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 初始化持久化键值存储
	store, err := kvfactory.NewStore(&cfg.Store)
	if err != nil {
		return nil, err
	}
	log.Info().Str("type", cfg.Store.Type).Msg("key-value store initialized")

	// 初始化内容服务（凭证缺失时降级为延迟报错，不阻止启动）
	contentProvider, err := provider.NewLLMProvider(context.Background(), &cfg.AI, &cfg.Image, &cfg.Reader)
	if err != nil {
		store.Close()
		return nil, err
	}

	contentCache := cache.NewContentCache(store)
	libraryStore := library.NewStore(store)
	coordinator := reader.NewCoordinator(contentProvider, contentCache, libraryStore, store, cfg.Reader.StartOnline)

	srv := &Server{
		cfg:         cfg,
		engine:      engine,
		store:       store,
		coordinator: coordinator,
	}

	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	readingHdl := readingHandler.NewHandler(s.coordinator)

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		// 发现
		v1.GET("/search", readingHdl.Search)
		v1.GET("/featured", readingHdl.Featured)

		// 书架
		v1.GET("/library", readingHdl.ListLibrary)
		v1.POST("/library", readingHdl.Install)
		v1.DELETE("/library/:novel_id", readingHdl.Uninstall)

		// 阅读
		v1.GET("/library/:novel_id/chapters/:number", readingHdl.OpenChapter)
		v1.GET("/library/:novel_id/chapters/:number/next", readingHdl.NextChapter)
		v1.GET("/library/:novel_id/chapters/:number/previous", readingHdl.PrevChapter)
		v1.GET("/library/:novel_id/chapters/:number/image", readingHdl.ChapterImage)
		v1.PUT("/library/:novel_id/chapters/:number/scroll", readingHdl.SaveScroll)

		// 网络状态
		v1.GET("/network", readingHdl.GetNetwork)
		v1.PUT("/network", readingHdl.SetNetwork)
	}
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

		if err := s.store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close key-value store")
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
