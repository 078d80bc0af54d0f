package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/database"
	"github.com/inkpress/inkpress/internal/handler"
	"github.com/inkpress/inkpress/internal/middleware"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	postRepo := repository.NewPostRepository(database.DB)
	tagRepo := repository.NewTagRepository(database.DB)
	commentRepo := repository.NewCommentRepository(database.DB)
	interactionRepo := repository.NewInteractionRepository(database.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	postService := service.NewPostService(postRepo, tagRepo, commentRepo, interactionRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)
	tagService := service.NewTagService(tagRepo, postRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, postService)
	postHandler := handler.NewPostHandler(postService, commentService)
	commentHandler := handler.NewCommentHandler(commentService)
	tagHandler := handler.NewTagHandler(tagService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	// Credential endpoints sit behind the Redis rate limiter when Redis
	// is configured.
	limited := func(h gin.HandlerFunc) gin.HandlerFunc { return h }
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		limiter := middleware.NewRateLimiter(redis.NewClient(opts), middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
		})
		rl := limiter.Middleware()
		limited = func(h gin.HandlerFunc) gin.HandlerFunc {
			return func(c *gin.Context) {
				rl(c)
				if !c.IsAborted() {
					h(c)
				}
			}
		}
	}

	api := router.Group("/api")
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTSecret)

	// Public routes
	api.POST("/users/register", limited(authHandler.Register))
	api.POST("/auth/login", limited(authHandler.Login))
	api.POST("/auth/refresh", limited(authHandler.Refresh))

	api.GET("/posts", optionalAuth, postHandler.List)
	api.GET("/posts/:id", optionalAuth, postHandler.Get)
	api.GET("/posts/:id/comments", optionalAuth, postHandler.Comments)
	api.GET("/tags", tagHandler.List)
	api.GET("/tags/:id", tagHandler.Get)
	api.GET("/tags/:id/posts", tagHandler.Posts)

	// Protected routes (require JWT)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/users/me", userHandler.Me)
		protected.GET("/users/:id/posts", userHandler.Posts)

		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", postHandler.Update)
		protected.DELETE("/posts/:id", postHandler.Delete)
		protected.POST("/posts/:id/like", postHandler.Like)
		protected.POST("/posts/:id/unlike", postHandler.Unlike)
		protected.POST("/posts/:id/share", postHandler.Share)
		protected.GET("/posts/:id/analytics", postHandler.Analytics)

		protected.POST("/comments", commentHandler.Create)
		protected.POST("/comments/:id/approve", commentHandler.Approve)
		protected.POST("/comments/:id/reject", commentHandler.Reject)

		protected.POST("/tags", tagHandler.Create)
		protected.PUT("/tags/:id", tagHandler.Update)
		protected.DELETE("/tags/:id", tagHandler.Delete)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
