package models

import (
	"time"
)

// UserVote is one ballot: a user's selection of one option within one vote.
// The (vote_id, user_id, vote_option_id) triple is unique at the store level,
// which is the authoritative guard against duplicate ballots.
type UserVote struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	VoteID       uint      `json:"vote_id" gorm:"not null;uniqueIndex:idx_user_votes_ballot"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_votes_ballot"`
	VoteOptionID uint      `json:"vote_option_id" gorm:"not null;uniqueIndex:idx_user_votes_ballot"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Vote   Vote       `json:"vote,omitempty" gorm:"foreignKey:VoteID;constraint:OnDelete:CASCADE"`
	User   User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Option VoteOption `json:"option,omitempty" gorm:"foreignKey:VoteOptionID;constraint:OnDelete:CASCADE"`
}
