package main

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/database"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/utils"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)
	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		FirstName:    "Site",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully!")
	log.Println("   Username:", admin.Username)
	log.Println("   Email:", admin.Email)

	// A few starter tags so authors aren't greeted by an empty taxonomy.
	for _, name := range []string{"Technology", "Travel", "Food"} {
		tag := models.Tag{ID: uuid.New(), Name: name, Slug: utils.Slugify(name)}
		if err := database.DB.Where("LOWER(name) = LOWER(?)", name).FirstOrCreate(&tag).Error; err != nil {
			log.Println("Failed to seed tag:", name, err)
		}
	}
	log.Println("Starter tags seeded")
}
