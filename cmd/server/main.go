// Package main 是服务端的入口点
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/cache"
	"pocket-assistant/internal/config"
	"pocket-assistant/internal/database"
	"pocket-assistant/internal/extract"
	"pocket-assistant/internal/handler"
	"pocket-assistant/internal/intent"
	"pocket-assistant/internal/llm"
	"pocket-assistant/internal/middleware"
	"pocket-assistant/internal/news"
	"pocket-assistant/internal/repository"
	"pocket-assistant/internal/service"
	"pocket-assistant/internal/timenlp"
	"pocket-assistant/internal/websocket"
	"pocket-assistant/internal/workflow"
	"pocket-assistant/pkg/jwt"
	"pocket-assistant/pkg/logger"
)

func main() {
	configPath := flag.String("config", "./configs", "配置文件目录")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	// 初始化数据库
	db, err := database.Open(cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化缓存（Token 黑名单、新闻摘要）
	appCache, err := cache.New(cfg)
	if err != nil {
		log.Fatalf("Failed to init cache: %v", err)
	}

	// 初始化 JWT 服务
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpire,
		cfg.JWT.RefreshExpire,
	)

	// 初始化大模型网关
	gateway, err := llm.New(cfg.AI)
	if err != nil {
		log.Fatalf("Failed to init llm gateway: %v", err)
	}

	// 初始化 Repository 层
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	stashRepo := repository.NewStashRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// 初始化 Service 层
	loc := cfg.Assistant.Location()
	defaultUserID := cfg.Assistant.DefaultUserID
	traitService := service.NewTraitService(profileRepo)

	assistant := workflow.NewAssistant(workflow.Deps{
		Classifier: intent.NewClassifier(intent.DefaultRules(gateway)...),
		Gateway:    gateway,
		Extractor:  extract.NewProfileExtractor(gateway),
		Traits:     traitService,
		News:       news.NewScraper(cfg.News, news.DefaultSources, appCache),
		Times:      timenlp.NewNormalizer(loc),
	})
	chatService := service.NewChatService(assistant, defaultUserID)

	// 初始化 WebSocket Hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	wsHub := websocket.NewHub(chatService)
	go wsHub.Run(ctx) // 在单独的 goroutine 中运行

	// 初始化 Handler 层
	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(service.NewAuthService(userRepo, appCache, jwtService)),
		User:         handler.NewUserHandler(service.NewUserService(userRepo)),
		Chat:         handler.NewChatHandler(chatService),
		Todo:         handler.NewTodoHandler(service.NewTodoService(todoRepo, loc), defaultUserID),
		Stash:        handler.NewStashHandler(service.NewStashService(stashRepo)),
		Profile:      handler.NewProfileHandler(traitService, defaultUserID),
		Subscription: handler.NewSubscriptionHandler(service.NewSubscriptionService(subRepo), defaultUserID),
	}
	wsHandler := websocket.NewHandler(wsHub, jwtService, defaultUserID)

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 全局中间件
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.Server.CORS...)))

	// 注册路由
	handler.RegisterRoutes(router, handlers, jwtService, appCache)
	wsHandler.RegisterRoutes(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // 对话需要等待大模型和新闻抓取
	}

	go func() {
		log.WithField("addr", addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// 先关闭 WebSocket 连接，再关闭 HTTP 服务器
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	if err := appCache.Close(); err != nil {
		log.Warnf("Failed to close cache: %v", err)
	}

	log.Info("Server exited")
}
