package main

import (
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/resolvedesk/backend/config"
	"github.com/resolvedesk/backend/internal/database"
	"github.com/resolvedesk/backend/internal/models"
)

// Seeds the default admin account and the default complaint categories.
// Safe to run repeatedly; existing rows are left alone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
	if err := seedCategories(db); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	log.Println("Seeding complete")
}

func seedAdmin(db *gorm.DB) error {
	const adminEmail = "admin@college.edu"

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		FullName:     "System Admin",
		Email:        adminEmail,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Default admin account created: %s", adminEmail)
	return nil
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.Category{
		{Name: "Electrical", Description: "Electrical issues and maintenance", Department: "Maintenance", PriorityLevel: models.PriorityHigh},
		{Name: "Hostel", Description: "Hostel related complaints", Department: "Hostel Admin", PriorityLevel: models.PriorityMedium},
		{Name: "Academic", Description: "Academic and course related issues", Department: "Academic", PriorityLevel: models.PriorityMedium},
		{Name: "Transport", Description: "Transport and bus related issues", Department: "Transport", PriorityLevel: models.PriorityMedium},
		{Name: "Canteen", Description: "Canteen and food related complaints", Department: "Canteen", PriorityLevel: models.PriorityLow},
		{Name: "Library", Description: "Library services and resources", Department: "Library", PriorityLevel: models.PriorityLow},
		{Name: "Lab", Description: "Lab equipment and facility issues", Department: "Lab Admin", PriorityLevel: models.PriorityHigh},
		{Name: "Other", Description: "Other general complaints", PriorityLevel: models.PriorityLow},
	}

	for i := range defaults {
		defaults[i].Active = true
		if err := db.Create(&defaults[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d default categories", len(defaults))
	return nil
}
