package config

import (
	"os"
	"time"

	"github.com/zy538324/homegrubhub-backend/internal/api/handlers"
	"github.com/zy538324/homegrubhub-backend/internal/api/routes"
	"github.com/zy538324/homegrubhub-backend/internal/middleware"
	"github.com/zy538324/homegrubhub-backend/internal/utils"
	"github.com/zy538324/homegrubhub-backend/internal/utils/storage"
	"github.com/zy538324/homegrubhub-backend/pkg/billing"
	"github.com/zy538324/homegrubhub-backend/pkg/jwt"
	"github.com/zy538324/homegrubhub-backend/pkg/pantry"
	"github.com/zy538324/homegrubhub-backend/pkg/prediction"
	"github.com/zy538324/homegrubhub-backend/pkg/recipe"
	"github.com/zy538324/homegrubhub-backend/pkg/shopping"
	"github.com/zy538324/homegrubhub-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Europe/London",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	billingRepository := billing.NewBillingRepository(db)
	pantryRepository := pantry.NewPantryRepository(db)
	shoppingRepository := shopping.NewShoppingRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	predictionRepository := prediction.NewPredictionRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3)
	billingService := billing.NewBillingService(billingRepository, userRepository)
	pantryService := pantry.NewPantryService(pantryRepository, s3)
	shoppingService := shopping.NewShoppingService(shoppingRepository, pantryService, pantryRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, pantryRepository)
	predictionService := prediction.NewPredictionService(predictionRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	billingHandler := handlers.NewBillingHandler(billingService, validator)
	pantryHandler := handlers.NewPantryHandler(pantryService, validator)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	predictionHandler := handlers.NewPredictionHandler(predictionService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		BillingHandler:    billingHandler,
		PantryHandler:     pantryHandler,
		ShoppingHandler:   shoppingHandler,
		RecipeHandler:     recipeHandler,
		PredictionHandler: predictionHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
		TierChecker:       userService,
	}
	routesConfig.Setup()
	return app, nil
}
