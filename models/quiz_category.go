package models

import (
	"time"
)

// QuizCategory is an independent lookup table. Quiz.Category references it
// loosely by name; there is no foreign key between the two.
type QuizCategory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	IconURL     string    `json:"icon_url" gorm:"size:500"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
