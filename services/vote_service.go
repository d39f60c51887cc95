package services

import (
	"errors"
	"fmt"
	"time"

	"quizvote/models"

	"gorm.io/gorm"
)

// Domain failures raised by the voting engine. Each carries a distinct
// message so the HTTP layer can map it to a specific status code.
var (
	ErrAlreadyVoted     = errors.New("user has already voted")
	ErrVoteNotActive    = errors.New("vote is not active")
	ErrVoteEnded        = errors.New("vote has ended")
	ErrTooManyChoices   = errors.New("too many choices selected")
	ErrInvalidTimeRange = errors.New("end time must not be before start time")
)

type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

type CreateVoteRequest struct {
	Title       string                    `json:"title" binding:"required"`
	Description string                    `json:"description"`
	Type        string                    `json:"type" binding:"omitempty,oneof=single_choice multiple_choice"`
	IsAnonymous bool                      `json:"is_anonymous"`
	StartTime   time.Time                 `json:"start_time" binding:"required"`
	EndTime     *time.Time                `json:"end_time"`
	MaxChoices  int                       `json:"max_choices" binding:"omitempty,min=1"`
	Options     []CreateVoteOptionRequest `json:"options" binding:"required,min=2,dive"`
}

type CreateVoteOptionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// OptionResult is the tally for one option: its ballot count and its share
// of all ballots cast, formatted with two decimals.
type OptionResult struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VoteCount   int64  `json:"vote_count"`
	Percentage  string `json:"percentage"`
}

type VoteResults struct {
	Results    []OptionResult `json:"results"`
	TotalVotes int64          `json:"total_votes"`
}

func (s *VoteService) FindAllActive() ([]models.Vote, error) {
	var votes []models.Vote
	err := s.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&votes).Error
	return votes, err
}

// FindByIDWithOptions returns the vote with its options ordered by
// sort_order, or (nil, nil) when no such vote exists.
func (s *VoteService) FindByIDWithOptions(id uint) (*models.Vote, error) {
	var vote models.Vote
	err := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("vote_options.sort_order")
	}).First(&vote, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Create inserts the vote and all of its options in one transaction.
// SortOrder is assigned from input position, 1-based. On any failure the
// whole operation rolls back; a vote without options is never observable.
func (s *VoteService) Create(userID uint, req *CreateVoteRequest) (*models.Vote, error) {
	if req.EndTime != nil && req.EndTime.Before(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	voteType := req.Type
	if voteType == "" {
		voteType = models.VoteTypeSingleChoice
	}
	maxChoices := req.MaxChoices
	if maxChoices < 1 {
		maxChoices = 1
	}

	vote := models.Vote{
		Title:       req.Title,
		Description: req.Description,
		Type:        voteType,
		CreatedBy:   userID,
		IsActive:    true,
		IsAnonymous: req.IsAnonymous,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxChoices:  maxChoices,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		for i, optReq := range req.Options {
			option := models.VoteOption{
				VoteID:      vote.ID,
				Title:       optReq.Title,
				Description: optReq.Description,
				ImageURL:    optReq.ImageURL,
				SortOrder:   i + 1,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindByIDWithOptions(vote.ID)
}

// SubmitVote records one ballot row per selected option, all inside a
// single transaction. Checks run in a fixed order: prior ballot, vote
// active, time window, choice count. A rejected submission leaves no
// ballot rows behind.
//
// The prior-ballot check is a fast path only; two racing submissions can
// both pass it. The unique index on (vote_id, user_id, vote_option_id) is
// the authoritative guard, and its violation is reported as ErrAlreadyVoted.
func (s *VoteService) SubmitVote(voteID, userID uint, optionIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.UserVote{}).
			Where("vote_id = ? AND user_id = ?", voteID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyVoted
		}

		var vote models.Vote
		if err := tx.First(&vote, voteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVoteNotActive
			}
			return err
		}
		if !vote.IsActive {
			return ErrVoteNotActive
		}

		if vote.EndTime != nil && vote.EndTime.Before(time.Now()) {
			return ErrVoteEnded
		}

		if len(optionIDs) > vote.MaxChoices {
			return ErrTooManyChoices
		}

		// Option membership and intra-call duplicates are intentionally not
		// validated here; the unique ballot index catches duplicates.
		for _, optionID := range optionIDs {
			ballot := models.UserVote{
				VoteID:       voteID,
				UserID:       userID,
				VoteOptionID: optionID,
			}
			if err := tx.Create(&ballot).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyVoted
				}
				return err
			}
		}
		return nil
	})
}

// GetResults tallies ballots per option. Options with no ballots appear
// with a zero count. Percentages are shares of all ballots cast for the
// vote, "0.00" when nothing has been cast yet.
func (s *VoteService) GetResults(voteID uint) (*VoteResults, error) {
	var rows []OptionResult
	err := s.db.Model(&models.VoteOption{}).
		Select("vote_options.id, vote_options.title, vote_options.description, COUNT(user_votes.id) AS vote_count").
		Joins("LEFT JOIN user_votes ON user_votes.vote_option_id = vote_options.id").
		Where("vote_options.vote_id = ?", voteID).
		Group("vote_options.id, vote_options.title, vote_options.description, vote_options.sort_order").
		Order("vote_options.sort_order").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var total int64
	for _, row := range rows {
		total += row.VoteCount
	}
	for i := range rows {
		if total > 0 {
			rows[i].Percentage = fmt.Sprintf("%.2f", float64(rows[i].VoteCount)/float64(total)*100)
		} else {
			rows[i].Percentage = "0.00"
		}
	}

	return &VoteResults{Results: rows, TotalVotes: total}, nil
}

// HasUserVoted reports whether the user holds any ballot for the vote.
// Used by clients to gate the voting UI before attempting submission.
func (s *VoteService) HasUserVoted(voteID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.UserVote{}).
		Where("vote_id = ? AND user_id = ?", voteID, userID).
		Count(&count).Error
	return count > 0, err
}
