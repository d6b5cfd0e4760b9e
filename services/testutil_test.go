package services

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
)

var userSeq uint64

// setupTestDB connects to the database named by TEST_DATABASE_URL and resets
// the schema. Tests that need a live store skip when it is not set.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("could not connect to test database: %v", err)
	}

	err = db.Migrator().DropTable(
		&models.Interaction{},
		&models.Tip{},
		&models.Comment{},
		&models.Video{},
		&models.User{},
	)
	if err != nil {
		t.Fatalf("could not reset schema: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Comment{},
		&models.Tip{},
		&models.Interaction{},
	)
	if err != nil {
		t.Fatalf("could not migrate schema: %v", err)
	}

	storage.DB = db
}

func createTestUser(t *testing.T, balance int64) *models.User {
	t.Helper()

	n := atomic.AddUint64(&userSeq, 1)
	user := models.User{
		UID:          fmt.Sprintf("test-uid-%d", n),
		Username:     fmt.Sprintf("testuser%d", n),
		DisplayName:  fmt.Sprintf("Test User %d", n),
		TokenBalance: balance,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("could not create user: %v", err)
	}
	return &user
}

func createTestVideo(t *testing.T, owner *models.User) *models.Video {
	t.Helper()

	video := models.Video{
		Title:   "test video",
		URL:     "https://example.com/videos/test.mp4",
		UserID:  owner.ID,
		Privacy: models.PrivacyPublic,
	}
	if err := storage.DB.Create(&video).Error; err != nil {
		t.Fatalf("could not create video: %v", err)
	}
	if err := storage.DB.Model(&models.User{}).Where("id = ?", owner.ID).
		UpdateColumn("uploaded_videos_count", gorm.Expr("uploaded_videos_count + ?", 1)).Error; err != nil {
		t.Fatalf("could not bump upload count: %v", err)
	}
	return &video
}

func reloadUser(t *testing.T, id uint) *models.User {
	t.Helper()

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		t.Fatalf("could not reload user %d: %v", id, err)
	}
	return &user
}

func reloadVideo(t *testing.T, id uint) *models.Video {
	t.Helper()

	var video models.Video
	if err := storage.DB.First(&video, id).Error; err != nil {
		t.Fatalf("could not reload video %d: %v", id, err)
	}
	return &video
}
