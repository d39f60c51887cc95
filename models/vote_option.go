package models

import (
	"time"
)

// VoteOption belongs to exactly one Vote and is cascade-deleted with it.
type VoteOption struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	VoteID      uint      `json:"vote_id" gorm:"not null"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"size:500"`
	SortOrder   int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Vote Vote `json:"vote,omitempty" gorm:"foreignKey:VoteID;constraint:OnDelete:CASCADE"`
}
