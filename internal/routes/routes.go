package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/shopapp/internal/config"
	"github.com/example/shopapp/internal/handlers"
	"github.com/example/shopapp/internal/middleware"
	"github.com/example/shopapp/internal/services"
	"github.com/example/shopapp/internal/store"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	signingKey, err := cfg.SigningKey()
	if err != nil {
		logrus.Fatalf("invalid signing key: %v", err)
	}

	userStore := store.NewUserStore(db)
	tokenStore := store.NewTokenStore(db)
	catalogStore := store.NewCatalogStore(db)
	orderStore := store.NewOrderStore(db)

	tokenService := services.NewTokenService(signingKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, tokenStore, userStore)
	userService := services.NewUserService(userStore, tokenService)
	orderService := services.NewOrderService(db, orderStore, userStore)
	catalogService := services.NewCatalogService(catalogStore)

	notifier, err := services.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	if err != nil {
		logrus.Warnf("telegram notifier disabled: %v", err)
	}

	authHandler := handlers.NewAuthHandler(userService, tokenService)
	orderHandler := handlers.NewOrderHandler(orderService, userService, notifier)
	productHandler := handlers.NewProductHandler(catalogService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	api := app.Group("/api")

	authRequired := middleware.AuthMiddleware(userService)
	adminOnly := middleware.RequireAdmin()

	// Users
	users := api.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/login", authHandler.Login)
	users.Post("/refresh-token", authHandler.RefreshToken)
	users.Get("/", authRequired, adminOnly, authHandler.List)
	users.Post("/details", authRequired, authHandler.Details)
	users.Put("/details/:id", authRequired, authHandler.UpdateDetails)
	users.Put("/reset-password/:id", authRequired, adminOnly, authHandler.ResetPassword)
	users.Put("/block/:id/:active", authRequired, adminOnly, authHandler.BlockOrEnable)

	// Categories
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Post("/", authRequired, adminOnly, catalogHandler.CreateCategory)
	categories.Put("/:id", authRequired, adminOnly, catalogHandler.UpdateCategory)
	categories.Delete("/:id", authRequired, adminOnly, catalogHandler.DeleteCategory)

	// Products
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Get("/:id/images", productHandler.ListImages)
	products.Post("/", authRequired, adminOnly, productHandler.CreateProduct)
	products.Post("/:id/images", authRequired, adminOnly, productHandler.AddImage)
	products.Put("/:id", authRequired, adminOnly, productHandler.UpdateProduct)
	products.Delete("/:id", authRequired, adminOnly, productHandler.DeleteProduct)

	// Orders
	orders := api.Group("/orders", authRequired)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/user/:user_id", orderHandler.ListByUser)
	orders.Get("/get-orders-by-keyword", adminOnly, orderHandler.SearchByKeyword)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/cancel/:id", orderHandler.CancelOrder)
	orders.Put("/:id/status", adminOnly, orderHandler.UpdateStatus)
	orders.Put("/:id", adminOnly, orderHandler.UpdateOrder)
	orders.Delete("/:id", adminOnly, orderHandler.DeleteOrder)
}
