package models

import (
	"time"
)

// QuizAttempt is an immutable record of one user's answer to one quiz.
// Rows are appended by RecordAttempt and never updated or deleted.
type QuizAttempt struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null"`
	QuizID     uint      `json:"quiz_id" gorm:"not null"`
	UserAnswer string    `json:"user_answer" gorm:"type:text"` // structured answers are JSON-serialized
	IsCorrect  bool      `json:"is_correct"`
	Score      int       `json:"score" gorm:"not null;default:0"`
	TimeSpent  int       `json:"time_spent"` // seconds
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Quiz Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}
