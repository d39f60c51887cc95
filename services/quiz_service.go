package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"quizvote/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

// QuizFilters is an optional conjunction; empty fields are not applied.
type QuizFilters struct {
	Category   string
	Difficulty string
	Type       string
}

type CreateQuizRequest struct {
	Question    string   `json:"question" binding:"required"`
	Answer      string   `json:"answer" binding:"required"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Type        string   `json:"type" binding:"omitempty,oneof=single_choice multiple_choice true_false text"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation"`
}

type UpdateQuizRequest struct {
	Question    *string  `json:"question"`
	Answer      *string  `json:"answer"`
	Category    *string  `json:"category"`
	Difficulty  *string  `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Type        *string  `json:"type" binding:"omitempty,oneof=single_choice multiple_choice true_false text"`
	Options     []string `json:"options"`
	Explanation *string  `json:"explanation"`
}

type QuizStats struct {
	TotalAttempts   int64  `json:"totalAttempts"`
	CorrectAttempts int64  `json:"correctAttempts"`
	Accuracy        string `json:"accuracy"`
	AvgTimeSpent    int    `json:"avgTimeSpent"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

func (s *QuizService) applyFilters(query *gorm.DB, filters QuizFilters) *gorm.DB {
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	return query
}

// List returns active quizzes matching the filters, newest first.
func (s *QuizService) List(filters QuizFilters) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	query := s.db.Where("is_active = ?", true)
	query = s.applyFilters(query, filters)
	err := query.Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

// GetByID returns the active quiz, or (nil, nil) when absent or retired.
func (s *QuizService) GetByID(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND is_active = ?", id, true).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetRandom samples one active quiz uniformly via a random ordering at the
// store level. Fine for small tables; does not scale to large ones.
func (s *QuizService) GetRandom(filters QuizFilters) (*models.Quiz, error) {
	var quiz models.Quiz
	query := s.db.Where("is_active = ?", true)
	query = s.applyFilters(query, filters)
	err := query.Order("RANDOM()").First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) Create(userID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}
	quizType := req.Type
	if quizType == "" {
		quizType = models.QuizTypeSingleChoice
	}

	quiz := models.Quiz{
		Question:    req.Question,
		Answer:      req.Answer,
		Category:    req.Category,
		Difficulty:  difficulty,
		Type:        quizType,
		Options:     models.StringList(req.Options),
		Explanation: req.Explanation,
		CreatedBy:   userID,
		IsActive:    true,
	}

	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// Update merges the patch into the stored row and re-stamps updated_at.
// Returns (nil, nil) when the quiz does not exist.
func (s *QuizService) Update(id uint, req *UpdateQuizRequest) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if req.Question != nil {
		quiz.Question = *req.Question
	}
	if req.Answer != nil {
		quiz.Answer = *req.Answer
	}
	if req.Category != nil {
		quiz.Category = *req.Category
	}
	if req.Difficulty != nil {
		quiz.Difficulty = *req.Difficulty
	}
	if req.Type != nil {
		quiz.Type = *req.Type
	}
	if req.Options != nil {
		quiz.Options = models.StringList(req.Options)
	}
	if req.Explanation != nil {
		quiz.Explanation = *req.Explanation
	}

	if err := s.db.Save(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// SoftDelete retires the quiz by flipping is_active. Attempt history is
// preserved.
func (s *QuizService) SoftDelete(id uint) error {
	return s.db.Model(&models.Quiz{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// RecordAttempt appends an immutable attempt row. Structured answers are
// JSON-serialized before storage; the score is 1 if correct, else 0.
func (s *QuizService) RecordAttempt(userID, quizID uint, answer interface{}, isCorrect bool, timeSpent int) (*models.QuizAttempt, error) {
	userAnswer, err := encodeAnswer(answer)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answer: %w", err)
	}

	score := 0
	if isCorrect {
		score = 1
	}

	attempt := models.QuizAttempt{
		UserID:     userID,
		QuizID:     quizID,
		UserAnswer: userAnswer,
		IsCorrect:  isCorrect,
		Score:      score,
		TimeSpent:  timeSpent,
	}

	if err := s.db.Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func encodeAnswer(answer interface{}) (string, error) {
	switch v := answer.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// GetStats aggregates attempts for one quiz: totals, accuracy rounded to
// two decimals ("0.00" when no attempts) and mean time spent rounded to
// the nearest second.
func (s *QuizService) GetStats(quizID uint) (*QuizStats, error) {
	var row struct {
		TotalAttempts   int64
		CorrectAttempts int64
		AvgTimeSpent    float64
	}

	err := s.db.Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Select("COUNT(*) AS total_attempts, " +
			"COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct_attempts, " +
			"COALESCE(AVG(time_spent), 0) AS avg_time_spent").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &QuizStats{
		TotalAttempts:   row.TotalAttempts,
		CorrectAttempts: row.CorrectAttempts,
		Accuracy:        "0.00",
		AvgTimeSpent:    int(math.Round(row.AvgTimeSpent)),
	}
	if row.TotalAttempts > 0 {
		stats.Accuracy = fmt.Sprintf("%.2f", float64(row.CorrectAttempts)/float64(row.TotalAttempts)*100)
	}
	return stats, nil
}

func (s *QuizService) ListCategories() ([]models.QuizCategory, error) {
	var categories []models.QuizCategory
	err := s.db.Where("is_active = ?", true).
		Order("name").
		Find(&categories).Error
	return categories, err
}

// GetCategoryStats counts active quizzes per category label.
func (s *QuizService) GetCategoryStats() ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.db.Model(&models.Quiz{}).
		Where("is_active = ?", true).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&counts).Error
	return counts, err
}
