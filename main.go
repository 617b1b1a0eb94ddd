package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db, config.AppEnv.CartTTL); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureReviewIndexes(db); err != nil {
		log.Printf("review index warning: %v", err)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(config.AppEnv.CORSOrigins) == 1 && config.AppEnv.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AppEnv.CORSOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")

	api.GET("/health", healthCheck(db))

	api.GET("/products", handlers.GetProducts(db))
	api.GET("/products/top-rated", handlers.HomeSection(db, "top-rated"))
	api.GET("/products/trending", handlers.HomeSection(db, "trending"))
	api.GET("/products/new-arrivals", handlers.HomeSection(db, "new-arrivals"))
	api.GET("/products/featured-collection", handlers.HomeSection(db, "featured-collection"))
	api.GET("/products/:id", handlers.GetProduct(db))

	api.POST("/cart", handlers.CreateCart(db))
	api.GET("/cart/:cartId", handlers.GetCart(db))
	api.POST("/cart/:cartId/items", handlers.AddCartItem(db))
	api.PUT("/cart/:cartId/items/:productId", handlers.UpdateCartItem(db))
	api.DELETE("/cart/:cartId/items/:productId", handlers.RemoveCartItem(db))
	api.DELETE("/cart/:cartId", handlers.ClearCart(db))

	api.POST("/orders", handlers.CreateOrder(db, config.AppEnv.JWTSecret))
	api.GET("/orders/my-orders", handlers.GetMyOrders(db))
	api.POST("/orders/track", handlers.TrackOrder(db))

	api.POST("/reviews", handlers.SubmitReview(db))
	api.GET("/reviews/store", handlers.GetStoreReviews(db))
	api.GET("/reviews/:productId", handlers.GetProductReviews(db))

	admin := r.Group("/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/orders", handlers.GetOrders(db))
		admin.PUT("/orders/:id/confirm", handlers.ConfirmOrder(db))
		admin.PUT("/orders/:id/decline", handlers.DeclineOrder(db))
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus(db))
		admin.PUT("/orders/:id", handlers.UpdateOrderInfo(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))

		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))
		admin.POST("/products/bulk-delete", handlers.BulkDeleteProducts(db))
	}

	r.Run(":" + config.AppEnv.Port)
}

func healthCheck(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Client().Ping(c.Request.Context(), readpref.Primary()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"database": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"database": "connected"})
	}
}
