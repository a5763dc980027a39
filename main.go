package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"social-service/internal/config"
	"social-service/internal/db"
	"social-service/internal/gateway"
	"social-service/internal/handlers"
	"social-service/internal/logger"
	"social-service/internal/middleware"
	"social-service/internal/observability"
	"social-service/internal/presence"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
	"social-service/internal/tracing"
	"social-service/internal/ws"
)

const serviceName = "social-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		zlog.Fatalw("failed to init tracing", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			zlog.Warnw("tracing shutdown failed", "error", err)
		}
	}()

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		zlog.Fatalw("failed to connect to db", "error", err)
	}
	defer database.Close()

	if eventPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange); err != nil {
		zlog.Warnw("event publishing disabled", "error", err)
	} else {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	}

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer auditPublisher.Close()
	zlog.Infow("audit publisher ready",
		"mode", rabbitmq.PublisherMode(auditPublisher),
		"reason", rabbitmq.PublisherNoopReason(auditPublisher))
	audit := telemetry.NewAuditEmitter(auditPublisher, "audit.social", serviceName, cfg.Env, zlog)

	userRepo := repositories.NewUserRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)
	postRepo := repositories.NewPostRepo(database)

	var directory presence.Directory
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		directory = presence.NewRedisDirectory(client, cfg.RedisPrefix)
		zlog.Infow("presence directory backed by redis", "addr", cfg.RedisAddr)
	} else {
		directory = presence.NewMemoryDirectory()
		zlog.Infow("presence directory in memory")
	}

	notificationHub := ws.NewHub(zlog, cfg.WSWriteDeadline)
	voteHub := ws.NewHub(zlog, cfg.WSWriteDeadline)

	notificationGateway := gateway.NewNotificationGateway(
		directory, notificationHub, userRepo, chatRepo, messageRepo, notificationRepo, audit, zlog)
	voteGateway := gateway.NewVoteGateway(postRepo, voteHub, zlog)

	notificationWS := ws.NewNotificationSocketHandler(notificationHub, notificationGateway, cfg.JWTSecret, zlog)
	voteWS := ws.NewVoteSocketHandler(voteHub, voteGateway, cfg.JWTSecret, zlog)

	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, userRepo, notificationRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	postHandler := handlers.NewPostHandler(postRepo)
	friendHandler := handlers.NewFriendHandler(notificationRepo, userRepo)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	router.GET("/chats", authMiddleware, chatHandler.ListChats)
	router.POST("/chats", authMiddleware, chatHandler.CreateChat)
	router.POST("/chats/:chat_id/leave", authMiddleware, chatHandler.LeaveChat)
	router.GET("/chats/:chat_id/messages", authMiddleware, chatHandler.GetChatMessages)

	router.GET("/notifications", authMiddleware, notificationHandler.ListNotifications)
	router.GET("/notifications/count", authMiddleware, notificationHandler.GetNotificationCount)
	router.DELETE("/notifications/:notification_id", authMiddleware, notificationHandler.DismissNotification)

	router.GET("/friends", authMiddleware, friendHandler.ListFriends)
	router.DELETE("/friends/:user_id", authMiddleware, friendHandler.RemoveFriend)

	router.GET("/posts", authMiddleware, postHandler.ListPosts)
	router.POST("/posts", authMiddleware, postHandler.CreatePost)
	router.PUT("/posts/:post_id", authMiddleware, postHandler.EditPost)
	router.DELETE("/posts/:post_id", authMiddleware, postHandler.DeletePost)

	router.GET("/ws/notifications", notificationWS.Handle)
	router.GET("/ws/votes", voteWS.Handle)

	zlog.Infow("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatalw("server error", "error", err)
	}
}
