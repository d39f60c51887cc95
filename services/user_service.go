package services

import (
	"errors"
	"time"

	"quizvote/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Role      *string `json:"role" binding:"omitempty,oneof=user admin"`
	AvatarURL *string `json:"avatar_url"`
}

// VoteHistoryEntry is one row of a user's ballot history.
type VoteHistoryEntry struct {
	BallotID    uint      `json:"ballot_id"`
	VoteID      uint      `json:"vote_id"`
	VoteTitle   string    `json:"vote_title"`
	OptionID    uint      `json:"option_id"`
	OptionTitle string    `json:"option_title"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuizHistoryEntry is one row of a user's attempt history.
type QuizHistoryEntry struct {
	AttemptID  uint      `json:"attempt_id"`
	QuizID     uint      `json:"quiz_id"`
	Question   string    `json:"question"`
	UserAnswer string    `json:"user_answer"`
	IsCorrect  bool      `json:"is_correct"`
	Score      int       `json:"score"`
	TimeSpent  int       `json:"time_spent"`
	CreatedAt  time.Time `json:"created_at"`
}

// List returns the public projection of every account.
func (s *UserService) List() ([]models.UserProfile, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	profiles := make([]models.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, nil
}

// GetByID returns the public projection, or (nil, nil) when absent.
func (s *UserService) GetByID(id uint) (*models.UserProfile, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// GetByEmail returns the full row including the password hash. It exists
// for the authentication collaborator only; everything else goes through
// the projection.
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts the account and returns its public projection. The
// Password field must already hold a hash; this service never hashes.
func (s *UserService) Create(user *models.User) (*models.UserProfile, error) {
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// Update merges the patch, re-stamps updated_at and returns the public
// projection, or (nil, nil) when the account does not exist.
func (s *UserService) Update(id uint, req *UpdateUserRequest) (*models.UserProfile, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// TouchLastLogin stamps the last successful login. Called by the
// authentication collaborator.
func (s *UserService) TouchLastLogin(id uint) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}

// SoftDelete retires the account; the row is never physically removed on
// this path.
func (s *UserService) SoftDelete(id uint) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (s *UserService) IsAdmin(id uint) (bool, error) {
	var user models.User
	err := s.db.Select("role").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

// GetVoteHistory returns the user's ballots joined with vote and option
// titles, newest first.
func (s *UserService) GetVoteHistory(userID uint) ([]VoteHistoryEntry, error) {
	var entries []VoteHistoryEntry
	err := s.db.Model(&models.UserVote{}).
		Select("user_votes.id AS ballot_id, user_votes.vote_id, votes.title AS vote_title, " +
			"vote_options.id AS option_id, vote_options.title AS option_title, user_votes.created_at").
		Joins("JOIN votes ON votes.id = user_votes.vote_id").
		Joins("JOIN vote_options ON vote_options.id = user_votes.vote_option_id").
		Where("user_votes.user_id = ?", userID).
		Order("user_votes.created_at DESC").
		Scan(&entries).Error
	return entries, err
}

// GetQuizHistory returns the user's attempts joined with quiz questions,
// newest first.
func (s *UserService) GetQuizHistory(userID uint) ([]QuizHistoryEntry, error) {
	var entries []QuizHistoryEntry
	err := s.db.Model(&models.QuizAttempt{}).
		Select("quiz_attempts.id AS attempt_id, quiz_attempts.quiz_id, quizzes.question, "+
			"quiz_attempts.user_answer, quiz_attempts.is_correct, quiz_attempts.score, "+
			"quiz_attempts.time_spent, quiz_attempts.created_at").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.user_id = ?", userID).
		Order("quiz_attempts.created_at DESC").
		Scan(&entries).Error
	return entries, err
}
