package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/ritualhq/backend/internal/config"
	"github.com/ritualhq/backend/internal/handlers"
	"github.com/ritualhq/backend/internal/logger"
	"github.com/ritualhq/backend/internal/middleware"
	"github.com/ritualhq/backend/internal/models"
	"github.com/ritualhq/backend/internal/repository"
	"github.com/ritualhq/backend/internal/service"
	"github.com/ritualhq/backend/pkg/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	logFormat := "json"
	if cfg.Server.Env != "production" {
		logFormat = "text"
	}
	log := logger.NewSlogLogger(logger.Config{
		Level:  logger.LevelInfo,
		Format: logFormat,
	})
	logger.SetDefault(log)

	log.Info("starting ritual API server",
		logger.String("env", cfg.Server.Env),
		logger.String("timezone", cfg.Analytics.Timezone))

	// Initialize Supabase client
	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)

	// Initialize repositories
	recordRepo := repository.NewHabitRecordRepository(supabaseClient)
	cacheRepo := repository.NewCacheRepository(supabaseClient)

	// Initialize services
	insightService := service.NewInsightService(recordRepo, cacheRepo, log, cfg)
	conversationService := service.NewConversationService(cacheRepo, log, cfg.Analytics.ConversationTTL)

	// Initialize handlers
	insightsHandler := handlers.NewInsightsHandler(insightService)
	conversationHandler := handlers.NewConversationHandler(conversationService)

	// Register custom binding validations
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("habittype", func(fl validator.FieldLevel) bool {
			return models.HabitType(fl.Field().String()).IsValid()
		})
	}

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes; user identity comes from the upstream gateway
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		insights := v1.Group("/insights")
		{
			insights.GET("", insightsHandler.GetInsights)
			insights.GET("/suggestions", insightsHandler.GetSuggestions)
			insights.GET("/streaks", insightsHandler.GetStreaks)
			insights.GET("/streaks/:type", insightsHandler.GetStreak)
			insights.GET("/completion", insightsHandler.GetCompletionRate)
			insights.POST("/invalidate", insightsHandler.InvalidateInsights)
		}

		conversation := v1.Group("/conversation")
		{
			conversation.GET("", conversationHandler.GetTranscript)
			conversation.POST("/turns", conversationHandler.AppendTurn)
		}
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
