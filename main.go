package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"elkishop/internal/cart"
	"elkishop/internal/config"
	"elkishop/internal/database"
	"elkishop/internal/handlers"
	"elkishop/internal/metrics"
	"elkishop/internal/middleware"
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
	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Printf("category index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	if err := database.SeedAdminUser(db, config.AppEnv.AdminEmail, config.AppEnv.AdminPassword); err != nil {
		log.Printf("admin seed warning: %v", err)
	}

	carts := cart.NewStore()

	r := gin.Default()

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	api := r.Group("/api")
	{
		api.GET("/products", handlers.GetProducts(db))
		api.GET("/products/:id", handlers.GetProduct(db))
		api.GET("/categories", handlers.GetCategories(db))
		api.GET("/search", handlers.Search(db))

		api.GET("/cart", handlers.GetCart(carts))
		api.POST("/cart/items", handlers.AddCartItem(carts))
		api.PUT("/cart/items/:productId", handlers.UpdateCartItem(carts))
		api.DELETE("/cart/items/:productId", handlers.RemoveCartItem(carts))
		api.DELETE("/cart", handlers.ClearCart(carts))
		api.POST("/cart/checkout", handlers.CheckoutCart(carts, db))

		api.POST("/orders", handlers.CreateOrder(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/categories", handlers.GetAllCategories(db))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.GET("/orders", handlers.GetOrders(db))
		admin.PATCH("/orders/:id", handlers.UpdateOrderStatus(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
