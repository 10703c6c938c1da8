package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fixitnow-chat/config"
	"fixitnow-chat/internal/handler"
	"fixitnow-chat/internal/middleware"
	"fixitnow-chat/internal/services"
	"fixitnow-chat/internal/transport/httpdto"
	"fixitnow-chat/internal/websocket"
	"fixitnow-chat/pkg/database"
	"fixitnow-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	registry   *websocket.Registry
	pool       *pgxpool.Pool
}

type Handlers struct {
	Chat      *handler.ChatHandler
	Websocket *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger, registry *websocket.Registry, pool *pgxpool.Pool) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine:   engine,
		config:   cfg,
		logger:   l,
		registry: registry,
		pool:     pool,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), s.pool); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
			"status":      "healthy",
			"connections": s.registry.Count(),
		}))
	})

	// The upgrade endpoint authenticates by itself: browser websocket
	// clients cannot send an Authorization header, so the token may also
	// arrive as a query parameter.
	s.engine.GET(s.config.WebsocketPath, handlers.Websocket.Connect)

	chat := s.engine.Group("/api/chat", middleware.AuthMiddleware(authService))
	{
		chat.GET("/history", handlers.Chat.History)
		chat.GET("/conversations", handlers.Chat.Conversations)
		chat.GET("/presence", handlers.Chat.Presence)
	}
}

func (s *Server) Start() error {
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("Error in starting the server: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	s.logger.Infof("Quitting signal received.. Shutting down")

	// Drain live chat connections before stopping the listener so clients
	// see a clean close frame instead of a reset.
	s.registry.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		return err
	}

	s.logger.Infof("Server stopped gracefully")
	return nil
}
