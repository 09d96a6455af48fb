// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/config"
	"github.com/tokita/tokita-backend/internal/events"
	"github.com/tokita/tokita-backend/internal/handlers"
	"github.com/tokita/tokita-backend/internal/middleware"
	"github.com/tokita/tokita-backend/internal/models"
	"github.com/tokita/tokita-backend/internal/region"
	"github.com/tokita/tokita-backend/internal/services"
	"github.com/tokita/tokita-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, dispatcher *events.Dispatcher) *gin.Engine {
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	models.SetImageBaseURL(cfg.Storage.CDNBaseURL)

	// Region resolution stack
	var cache region.Cache
	if cfg.Redis.Enabled() {
		cache = region.NewRedisCache(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	} else {
		cache = region.NewMemoryCache()
	}

	regionClient := region.NewClient(cfg.Region.BaseURL, cfg.Region.Timeout())
	resolver := region.NewResolver(regionClient, cache, region.NewWilayahLookup(db), logrus.StandardLogger())
	directory := region.NewDirectory(db, regionClient, cache)

	// Services
	notificationService := services.NewNotificationService(db, cfg.FCM)
	dispatcher.Subscribe(notificationService.HandleOrderCreated)

	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		logrus.WithError(err).Warn("Object storage unavailable, uploads run in local mode")
		storageService, _ = services.NewStorageService(config.StorageConfig{})
	}

	authService := services.NewAuthService(db, cfg.JWT.AccessTokenTTL)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	favoriteService := services.NewFavoriteService(db)
	addressService := services.NewAddressService(db, resolver)
	orderService := services.NewOrderService(db, addressService, dispatcher)
	chatService := services.NewChatService(db, notificationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	productHandler := handlers.NewProductHandler(productService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	addressHandler := handlers.NewAddressHandler(addressService)
	orderHandler := handlers.NewOrderHandler(orderService)
	chatHandler := handlers.NewChatHandler(chatService)
	regionHandler := handlers.NewRegionHandler(directory)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
		}

		// Public catalog
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/categories", productHandler.Categories)
		api.GET("/categories/:id/products", productHandler.CategoryProducts)

		regions := api.Group("/regions")
		{
			regions.GET("/provinces", regionHandler.Provinces)
			regions.GET("/cities", regionHandler.Cities)
			regions.GET("/districts/:regencyCode", regionHandler.Districts)
			regions.GET("/villages/:districtCode", regionHandler.Villages)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			profile := protected.Group("/profile")
			{
				profile.GET("", userHandler.GetProfile)
				profile.PUT("", userHandler.UpdateProfile)
				profile.PUT("/password", userHandler.UpdatePassword)
				profile.POST("/avatar", userHandler.UploadAvatar)
				profile.DELETE("", userHandler.DeleteAccount)
				profile.POST("/fcm-token", userHandler.UpdateFcmToken)
			}

			addresses := protected.Group("/addresses")
			{
				addresses.GET("", addressHandler.List)
				addresses.POST("", addressHandler.Create)
				addresses.GET("/:id", addressHandler.Get)
				addresses.PUT("/:id", addressHandler.Update)
				addresses.POST("/:id/default", addressHandler.SetDefault)
				addresses.DELETE("/:id", addressHandler.Delete)
			}

			orders := protected.Group("/orders")
			{
				orders.POST("", orderHandler.Checkout)
				orders.GET("", orderHandler.List)
				orders.GET("/:id", orderHandler.Get)
			}

			favorites := protected.Group("/favorites")
			{
				favorites.GET("", favoriteHandler.List)
				favorites.POST("", favoriteHandler.Add)
				favorites.DELETE("/:id", favoriteHandler.Remove)
				favorites.DELETE("/products/:productId", favoriteHandler.RemoveByProduct)
			}

			chats := protected.Group("/chats")
			{
				chats.POST("/rooms", chatHandler.CreateRoom)
				chats.GET("/rooms", chatHandler.ListRooms)
				chats.GET("/rooms/:id/messages", chatHandler.RoomMessages)
				chats.POST("/rooms/:id/messages", chatHandler.SendMessage)
				chats.GET("/rooms/:id/unread-count", chatHandler.UnreadCount)
				chats.GET("/unread-count", chatHandler.TotalUnreadCount)
			}
		}
	}

	return r
}
