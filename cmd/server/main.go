package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"accentdetect/internal/ai"
	"accentdetect/internal/api"
	"accentdetect/internal/config"
	"accentdetect/internal/langid"
	"accentdetect/internal/media"
	"accentdetect/internal/pipeline"
	"accentdetect/internal/resolve"
	"accentdetect/internal/storage"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	resolver := resolve.New(cfg.MaxUploadBytes)
	acquirer := media.NewToolAcquirer(cfg)

	provider, err := langid.CreateProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create language-ID provider: %v", err)
	}
	log.Printf("Language-ID provider initialized: %s", provider.Name())

	var commentator pipeline.Commentator
	if cfg.OpenAIKey != "" {
		commentator = ai.NewCommentator(cfg.OpenAIKey)
		log.Println("AI accent commentary enabled")
	} else {
		log.Println("OPENAI_API_KEY not set, running without AI commentary")
	}

	store := storage.New()
	pl := pipeline.New(cfg, resolver, acquirer, provider, commentator, store)

	r := gin.Default()

	// Add CORS middleware for browser clients
	r.Use(corsMiddleware())

	// Register routes
	api.NewServer(cfg, pl, store).RegisterRoutes(r)

	log.Printf("Accent detection backend running on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsMiddleware adds CORS headers for browser clients
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
