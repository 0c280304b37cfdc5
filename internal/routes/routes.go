package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/config"
	"github.com/example/deshimart/internal/handlers"
	"github.com/example/deshimart/internal/middleware"
	"github.com/example/deshimart/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	mailer := services.NewMailer(cfg, log)
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, log)
	cartService := services.NewCartService(db, log)
	orderService := services.NewOrderService(db, cfg, mailer, telegram, log)
	addressService := services.NewAddressService(db)

	authHandler := handlers.NewAuthHandler(db, cfg, cartService, mailer, log)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(db, orderService)
	productHandler := handlers.NewProductHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	addressHandler := handlers.NewAddressHandler(addressService)
	reviewHandler := handlers.NewReviewHandler(db)
	wishlistHandler := handlers.NewWishlistHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api", middleware.ResolvePrincipal(cfg))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.RequireAuth(), authHandler.Me)

	// Catalog routes
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Get("/:slug", categoryHandler.GetCategory)

	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:slug", productHandler.GetProduct)

	// Cart routes work for guests and users alike
	cart := api.Group("/cart")
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/", cartHandler.AddToCart)
	cart.Put("/:id", cartHandler.UpdateCartItem)
	cart.Delete("/:id", cartHandler.RemoveCartItem)
	cart.Delete("/", cartHandler.ClearCart)

	// Checkout and public tracking
	api.Post("/orders", orderHandler.Checkout)
	api.Get("/orders/track/:orderNumber", orderHandler.TrackOrder)

	// Reviews are open to guests; moderation is admin-only
	api.Post("/reviews", reviewHandler.CreateReview)

	// Authenticated routes
	protected := api.Group("", middleware.RequireAuth())

	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Put("/profile/password", profileHandler.ChangePassword)

	protected.Get("/profile/addresses", addressHandler.ListAddresses)
	protected.Post("/profile/addresses", addressHandler.CreateAddress)
	protected.Put("/profile/addresses/:id", addressHandler.UpdateAddress)
	protected.Delete("/profile/addresses/:id", addressHandler.DeleteAddress)

	protected.Get("/wishlist", wishlistHandler.ListWishlist)
	protected.Post("/wishlist", wishlistHandler.AddToWishlist)
	protected.Delete("/wishlist/:id", wishlistHandler.RemoveFromWishlist)

	// Admin routes
	admin := api.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())

	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	admin.Post("/categories", categoryHandler.CreateCategory)
	admin.Put("/categories/:id", categoryHandler.UpdateCategory)
	admin.Delete("/categories/:id", categoryHandler.DeleteCategory)

	admin.Put("/orders/:id", orderHandler.UpdateOrder)

	admin.Get("/reviews", reviewHandler.ListReviews)
	admin.Put("/reviews/:id/approve", reviewHandler.ApproveReview)
	admin.Delete("/reviews/:id", reviewHandler.DeleteReview)

	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
}
