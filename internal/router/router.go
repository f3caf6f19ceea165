package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

// SetupRouter wires the services and registers the full API surface.
// creationLimiter may be nil when redis is unavailable; the recipe
// endpoints then run unthrottled.
func SetupRouter(cfg *config.Config, db *gorm.DB, s3cfg *config.S3Config, creationLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	router.GET("/health", api.HealthCheck)

	// Locally-stored recipe images
	router.Static("/media", cfg.MediaDir)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	relationService := service.NewRelationService(db)
	shoppingListService := service.NewShoppingListService(db)
	imageService := service.NewImageService(s3cfg, cfg.MediaDir)
	serializer := api.NewSerializer(db)

	authHandler := api.NewAuthHandler(authService, serializer)
	userHandler := api.NewUserHandler(userService, recipeService, relationService, authService, serializer)
	tagHandler := api.NewTagHandler(db, serializer)
	ingredientHandler := api.NewIngredientHandler(db, serializer)
	recipeHandler := api.NewRecipeHandler(
		recipeService,
		relationService,
		shoppingListService,
		imageService,
		authService,
		serializer,
		creationLimiter,
	)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)
	tagHandler.RegisterRoutes(v1)
	ingredientHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)

	return router
}
