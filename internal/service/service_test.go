package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/resolvedesk/backend/internal/database"
	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/types"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{
		FullName:     "Test " + role,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func identityOf(u *models.User) types.Identity {
	return types.Identity{ID: u.ID, Role: u.Role}
}

func testCtx() context.Context {
	return context.Background()
}
