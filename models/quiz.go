package models

import (
	"time"
)

type Quiz struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Question    string     `json:"question" gorm:"size:255;not null"`
	Answer      string     `json:"answer" gorm:"size:255;not null"`
	Category    string     `json:"category" gorm:"size:100"`
	Difficulty  string     `json:"difficulty" gorm:"size:20;not null;default:'easy'"`    // easy, medium, hard
	Type        string     `json:"type" gorm:"size:30;not null;default:'single_choice'"` // single_choice, multiple_choice, true_false, text
	Options     StringList `json:"options" gorm:"type:text"`                             // only set for choice-type quizzes
	Explanation string     `json:"explanation" gorm:"type:text"`
	CreatedBy   uint       `json:"created_by"`
	IsActive    bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Creator  User          `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Attempts []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:QuizID"`
}

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	QuizTypeSingleChoice   = "single_choice"
	QuizTypeMultipleChoice = "multiple_choice"
	QuizTypeTrueFalse      = "true_false"
	QuizTypeText           = "text"
)
