package services

import (
	"testing"
	"time"

	"quizvote/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.QuizAttempt{},
		&models.QuizCategory{},
		&models.Vote{},
		&models.VoteOption{},
		&models.UserVote{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "$2a$10$testhashtesthashtesthashtesthash",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

// createTestVote builds an open vote with the given options, started an
// hour ago and open-ended unless end is set.
func createTestVote(t *testing.T, svc *VoteService, creatorID uint, maxChoices int, end *time.Time, optionTitles ...string) *models.Vote {
	t.Helper()

	options := make([]CreateVoteOptionRequest, 0, len(optionTitles))
	for _, title := range optionTitles {
		options = append(options, CreateVoteOptionRequest{Title: title})
	}

	vote, err := svc.Create(creatorID, &CreateVoteRequest{
		Title:      "Test Vote",
		StartTime:  time.Now().Add(-time.Hour),
		EndTime:    end,
		MaxChoices: maxChoices,
		Options:    options,
	})
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	return vote
}

func countBallots(t *testing.T, db *gorm.DB, voteID uint) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.UserVote{}).Where("vote_id = ?", voteID).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count ballots: %v", err)
	}
	return count
}
