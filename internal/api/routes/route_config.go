package routes

import (
	"github.com/zy538324/homegrubhub-backend/internal/api/handlers"
	"github.com/zy538324/homegrubhub-backend/internal/middleware"
	"github.com/zy538324/homegrubhub-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	BillingHandler    handlers.BillingHandler
	PantryHandler     handlers.PantryHandler
	ShoppingHandler   handlers.ShoppingHandler
	RecipeHandler     handlers.RecipeHandler
	PredictionHandler handlers.PredictionHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
	TierChecker       middleware.TierChecker
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Billing()
	c.Pantry()
	c.Shopping()
	c.Recipes()
	c.Predictive()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) Billing() {
	billing := c.App.Group("/api/v1/billing", c.Middleware.AuthMiddleware(c.JWTService))
	{
		billing.Post("/subscribe", c.BillingHandler.CreateTransaction)
		billing.Get("/transactions", c.BillingHandler.GetTransactions)
	}
}

func (c *Config) Pantry() {
	pantry := c.App.Group("/api/v1/pantry", c.Middleware.AuthMiddleware(c.JWTService))

	pantry.Get("/stats", c.PantryHandler.GetStats)
	pantry.Get("/expiring", c.PantryHandler.GetExpiringItems)

	pantry.Post("/categories", c.PantryHandler.AddCategory)
	pantry.Get("/categories", c.PantryHandler.GetCategories)
	pantry.Delete("/categories/:id", c.PantryHandler.DeleteCategory)

	pantry.Post("/items", c.PantryHandler.AddItem)
	pantry.Get("/items", c.PantryHandler.GetItems)
	pantry.Get("/items/:id", c.PantryHandler.GetItemDetails)
	pantry.Put("/items/:id", c.PantryHandler.UpdateItem)
	pantry.Delete("/items/:id", c.PantryHandler.DeleteItem)
	pantry.Post("/items/:id/adjust", c.PantryHandler.AdjustQuantity)
	pantry.Get("/items/:id/usage", c.PantryHandler.GetUsageLogs)
	pantry.Post("/items/image", c.PantryHandler.UploadItemImage)
}

func (c *Config) Shopping() {
	shopping := c.App.Group("/api/v1/shopping", c.Middleware.AuthMiddleware(c.JWTService))

	shopping.Post("/items", c.ShoppingHandler.AddItem)
	shopping.Get("/items", c.ShoppingHandler.GetList)
	shopping.Delete("/items/:id", c.ShoppingHandler.DeleteItem)
	shopping.Post("/items/:id/toggle", c.ShoppingHandler.TogglePurchased)
	shopping.Delete("/purchased", c.ShoppingHandler.ClearPurchased)
	shopping.Post("/generate", c.ShoppingHandler.GenerateFromLowStock)

	shopping.Post("/weekly", c.ShoppingHandler.CreateWeeklyList)
	shopping.Get("/weekly", c.ShoppingHandler.GetWeeklyLists)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))

	recipes.Post("", c.RecipeHandler.AddRecipe)
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/history", c.RecipeHandler.GetCookingHistory)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetails)
	recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)
	recipes.Post("/:id/cook", c.RecipeHandler.CookRecipe)
}

// Predictive routes sit behind the Pro gate on top of auth.
func (c *Config) Predictive() {
	predictive := c.App.Group(
		"/api/v1/predictive",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.ProMiddleware(c.TierChecker),
	)

	predictive.Get("/predictions", c.PredictionHandler.GetPredictions)
	predictive.Get("/forecast/:id", c.PredictionHandler.GetItemForecast)
	predictive.Get("/shopping-list", c.PredictionHandler.GetSmartShoppingList)
	predictive.Post("/recommendations", c.PredictionHandler.ApplyRecommendations)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.BillingHandler.MidtransWebhookHandler)
}
