package main

import (
	"log"
	"os"
	"time"

	"marketplace-be/internal/model"
	"marketplace-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🚀 Seeding Credit Packages\n")

	packages := []model.CreditPackage{
		{Id: uuid.New(), Name: "Starter", Slug: "starter", Credits: 50, BonusCredits: 0, UnitPrice: 25000, Active: true, CreatedAt: time.Now()},
		{Id: uuid.New(), Name: "Seller", Slug: "seller", Credits: 150, BonusCredits: 15, UnitPrice: 65000, Active: true, CreatedAt: time.Now()},
		{Id: uuid.New(), Name: "Power Seller", Slug: "power-seller", Credits: 500, BonusCredits: 100, UnitPrice: 199000, Active: true, CreatedAt: time.Now()},
	}

	for _, p := range packages {
		var existing model.CreditPackage
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			color.Yellow("Package '%s' already exists, skipping...", p.Slug)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			color.Red("Error creating package '%s': %v", p.Slug, err)
		} else {
			color.Green("Created package: %s (%d credits + %d bonus)", p.Name, p.Credits, p.BonusCredits)
		}
	}

	color.Cyan("\n✅ Seeding completed")
}
