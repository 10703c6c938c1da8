package main

import (
	"context"
	"log"
	"time"

	"fixitnow-chat/config"
	"fixitnow-chat/internal/handler"
	chatredis "fixitnow-chat/internal/redis"
	"fixitnow-chat/internal/repository"
	"fixitnow-chat/internal/server"
	"fixitnow-chat/internal/services"
	"fixitnow-chat/internal/websocket"
	"fixitnow-chat/pkg/database"
	"fixitnow-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	defer l.Sync()
	logger.SetGlobalLogger(l)

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Presence mirroring is optional; without Redis the chat still works,
	// only the read-side presence endpoint is disabled.
	var presence *chatredis.PresenceStore
	if cfg.RedisHost != "" {
		client, err := chatredis.NewClient(ctx, chatredis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		presence = chatredis.NewPresenceStore(client, time.Duration(cfg.PresenceTTLMin)*time.Minute)
	}

	userRepo := repository.NewUserRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	authService := services.NewAuthService(userRepo, cfg)
	chatService := services.NewChatService(messageRepo, userRepo)

	opTimeout := time.Duration(cfg.OpTimeoutSec) * time.Second
	registry := websocket.NewRegistry()
	relay := websocket.NewRelay(registry, chatService, presence, l, opTimeout)

	handlers := &server.Handlers{
		Chat:      handler.NewChatHandler(chatService, presence),
		Websocket: websocket.NewHandler(authService, relay, l, opTimeout),
	}

	srv := server.New(cfg, l, registry, pool)
	srv.SetupRoutes(handlers, authService)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
