package migration

import (
	"fmt"
	"log"

	"github.com/zy538324/homegrubhub-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Transaction{}); err != nil {
		log.Fatalf("Error migrating transaction database: %v", err)
		return err
	}

	if err := db.AutoMigrate(&entities.PantryCategory{}, &entities.PantryItem{}, &entities.PantryUsageLog{}); err != nil {
		log.Fatalf("Error migrating pantry database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ShoppingListItem{}, &entities.WeeklyShoppingList{}, &entities.WeeklyShoppingItem{}); err != nil {
		log.Fatalf("Error migrating shopping database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}, &entities.RecipeIngredient{}, &entities.RecipeHistory{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
