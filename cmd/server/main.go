package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	config "github.com/cinemood/cinemood/configs"
	"github.com/cinemood/cinemood/internal/handlers"
	"github.com/cinemood/cinemood/internal/provider"
	"github.com/cinemood/cinemood/internal/recommend"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	apiClient := openai.NewClient(opts...)

	invoker, err := provider.NewClient(&apiClient, cfg.Model)
	if err != nil {
		log.Fatalf("failed to initialize provider client: %v", err)
	}
	service := recommend.NewService(invoker)

	recommendHandler := handlers.NewRecommendHandler(service)
	historyHandler := handlers.NewHistoryHandler()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", handlers.HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		recs := v1.Group("/recommendations")
		{
			recs.GET("/capabilities", recommendHandler.GetCapabilities)
			recs.POST("/personalized", recommendHandler.Personalized)
			recs.POST("/search", recommendHandler.Search)
			recs.POST("/surprise", recommendHandler.Surprise)
			recs.POST("/group", recommendHandler.Group)
			recs.POST("/analysis", recommendHandler.Analyze)
		}

		hist := v1.Group("/history")
		{
			hist.POST("/import", historyHandler.Import)
		}
	}

	log.Printf("Starting cinemood API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// authMiddleware gates the API behind a shared key when one is configured.
// This is transport hygiene for deployments, not a user store.
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
