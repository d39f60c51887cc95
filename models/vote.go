package models

import (
	"time"
)

type Vote struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Type        string     `json:"type" gorm:"size:30;not null;default:'single_choice'"` // single_choice, multiple_choice
	CreatedBy   uint       `json:"created_by"`
	IsActive    bool       `json:"is_active" gorm:"not null;default:true"`
	IsAnonymous bool       `json:"is_anonymous" gorm:"not null;default:false"`
	StartTime   time.Time  `json:"start_time" gorm:"not null"`
	EndTime     *time.Time `json:"end_time"` // nil means open-ended
	MaxChoices  int        `json:"max_choices" gorm:"not null;default:1"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Creator User         `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Options []VoteOption `json:"options,omitempty" gorm:"foreignKey:VoteID"`
}

const (
	VoteTypeSingleChoice   = "single_choice"
	VoteTypeMultipleChoice = "multiple_choice"
)

// Vote status values derived from the time window and the active flag.
// Status is never stored; it is recomputed on every read.
const (
	VoteStatusScheduled = "scheduled"
	VoteStatusOpen      = "open"
	VoteStatusClosed    = "closed"
)

// Status derives the lifecycle state of the vote at the given instant.
func (v *Vote) Status(now time.Time) string {
	if !v.IsActive {
		return VoteStatusClosed
	}
	if now.Before(v.StartTime) {
		return VoteStatusScheduled
	}
	if v.EndTime != nil && now.After(*v.EndTime) {
		return VoteStatusClosed
	}
	return VoteStatusOpen
}
