package services

import (
	"errors"
	"testing"
	"time"

	"quizvote/models"
)

func TestCreateVote(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	user := createTestUser(t, db, "creator@example.com", models.RoleUser)

	vote := createTestVote(t, svc, user.ID, 1, nil, "X", "Y", "Z")

	if vote.ID == 0 {
		t.Fatal("Expected vote to be assigned an ID")
	}
	if !vote.IsActive {
		t.Error("Expected new vote to be active")
	}
	if len(vote.Options) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(vote.Options))
	}
	for i, option := range vote.Options {
		if option.SortOrder != i+1 {
			t.Errorf("Option %d: expected sort_order %d, got %d", i, i+1, option.SortOrder)
		}
		if option.VoteID != vote.ID {
			t.Errorf("Option %d: expected vote_id %d, got %d", i, vote.ID, option.VoteID)
		}
	}
	if got := vote.Options[0].Title; got != "X" {
		t.Errorf("Expected first option X, got %q", got)
	}
}

func TestCreateVoteInvalidTimeRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	user := createTestUser(t, db, "creator@example.com", models.RoleUser)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.Create(user.ID, &CreateVoteRequest{
		Title:     "Backwards window",
		StartTime: start,
		EndTime:   &end,
		Options: []CreateVoteOptionRequest{
			{Title: "A"}, {Title: "B"},
		},
	})
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("Expected ErrInvalidTimeRange, got %v", err)
	}

	var count int64
	db.Model(&models.Vote{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no vote rows after rejected create, got %d", count)
	}
}

func TestSubmitVote(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 1, nil, "X", "Y")

	err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[0].ID})
	if err != nil {
		t.Fatalf("Expected submit to succeed, got %v", err)
	}

	if got := countBallots(t, db, vote.ID); got != 1 {
		t.Errorf("Expected 1 ballot, got %d", got)
	}
}

func TestSubmitVoteTwiceFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 2, nil, "X", "Y")

	if err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[0].ID}); err != nil {
		t.Fatalf("First submit failed: %v", err)
	}

	// A second ballot must fail regardless of which options it selects.
	err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[1].ID})
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
	}

	if got := countBallots(t, db, vote.ID); got != 1 {
		t.Errorf("Expected ballot count to stay at 1, got %d", got)
	}
}

func TestSubmitVoteDuplicateOptionIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 2, nil, "X", "Y")

	// Repeating one option passes every pre-check and hits the unique
	// ballot index on the second insert; the whole ballot rolls back.
	option := vote.Options[0].ID
	err := svc.SubmitVote(vote.ID, voter.ID, []uint{option, option})
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
	}

	if got := countBallots(t, db, vote.ID); got != 0 {
		t.Errorf("Expected zero ballots after rollback, got %d", got)
	}
}

func TestSubmitVoteTooManyChoices(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 1, nil, "X", "Y")

	err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[0].ID, vote.Options[1].ID})
	if !errors.Is(err, ErrTooManyChoices) {
		t.Fatalf("Expected ErrTooManyChoices, got %v", err)
	}

	if got := countBallots(t, db, vote.ID); got != 0 {
		t.Errorf("Expected zero ballots after rejected submit, got %d", got)
	}
}

func TestSubmitVoteEnded(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	end := time.Now().Add(-30 * time.Minute)
	vote := createTestVote(t, svc, creator.ID, 1, &end, "X", "Y")

	err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[0].ID})
	if !errors.Is(err, ErrVoteEnded) {
		t.Fatalf("Expected ErrVoteEnded, got %v", err)
	}

	if got := countBallots(t, db, vote.ID); got != 0 {
		t.Errorf("Expected zero ballots, got %d", got)
	}
}

func TestSubmitVoteNotActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 1, nil, "X", "Y")
	if err := db.Model(&models.Vote{}).Where("id = ?", vote.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("Failed to deactivate vote: %v", err)
	}

	tests := []struct {
		name   string
		voteID uint
	}{
		{"deactivated vote", vote.ID},
		{"missing vote", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SubmitVote(tt.voteID, voter.ID, []uint{vote.Options[0].ID})
			if !errors.Is(err, ErrVoteNotActive) {
				t.Fatalf("Expected ErrVoteNotActive, got %v", err)
			}
		})
	}
}

func TestGetResults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 1, nil, "X", "Y")

	if err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[0].ID}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	results, err := svc.GetResults(vote.ID)
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}

	if results.TotalVotes != 1 {
		t.Errorf("Expected total 1, got %d", results.TotalVotes)
	}
	if len(results.Results) != 2 {
		t.Fatalf("Expected 2 option tallies, got %d", len(results.Results))
	}

	x, y := results.Results[0], results.Results[1]
	if x.Title != "X" || y.Title != "Y" {
		t.Fatalf("Expected tallies ordered X then Y, got %q then %q", x.Title, y.Title)
	}
	if x.VoteCount != 1 || x.Percentage != "100.00" {
		t.Errorf("Expected X at 1 ballot / 100.00, got %d / %s", x.VoteCount, x.Percentage)
	}
	if y.VoteCount != 0 || y.Percentage != "0.00" {
		t.Errorf("Expected Y at 0 ballots / 0.00, got %d / %s", y.VoteCount, y.Percentage)
	}
}

func TestGetResultsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voterA := createTestUser(t, db, "a@example.com", models.RoleUser)
	voterB := createTestUser(t, db, "b@example.com", models.RoleUser)
	voterC := createTestUser(t, db, "c@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 1, nil, "X", "Y", "Z")
	for i, voter := range []*models.User{voterA, voterB, voterC} {
		if err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[i%2].ID}); err != nil {
			t.Fatalf("Submit for voter %d failed: %v", i, err)
		}
	}

	first, err := svc.GetResults(vote.ID)
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}
	second, err := svc.GetResults(vote.ID)
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}

	if first.TotalVotes != second.TotalVotes {
		t.Errorf("Totals differ across calls: %d vs %d", first.TotalVotes, second.TotalVotes)
	}
	for i := range first.Results {
		if first.Results[i].VoteCount != second.Results[i].VoteCount ||
			first.Results[i].Percentage != second.Results[i].Percentage {
			t.Errorf("Tally %d differs across calls: %+v vs %+v", i, first.Results[i], second.Results[i])
		}
	}
}

func TestGetResultsEmptyVote(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 1, nil, "X", "Y")

	results, err := svc.GetResults(vote.ID)
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}

	if results.TotalVotes != 0 {
		t.Errorf("Expected total 0, got %d", results.TotalVotes)
	}
	for _, tally := range results.Results {
		if tally.VoteCount != 0 || tally.Percentage != "0.00" {
			t.Errorf("Expected 0 / 0.00 for %q, got %d / %s", tally.Title, tally.VoteCount, tally.Percentage)
		}
	}
}

func TestMultipleChoiceSubmit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 2, nil, "X", "Y", "Z")

	err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[0].ID, vote.Options[2].ID})
	if err != nil {
		t.Fatalf("Expected submit within max_choices to succeed, got %v", err)
	}

	if got := countBallots(t, db, vote.ID); got != 2 {
		t.Errorf("Expected 2 ballots for a two-option selection, got %d", got)
	}

	results, err := svc.GetResults(vote.ID)
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}
	if results.TotalVotes != 2 {
		t.Errorf("Expected total 2, got %d", results.TotalVotes)
	}
	if results.Results[0].Percentage != "50.00" || results.Results[2].Percentage != "50.00" {
		t.Errorf("Expected 50.00 / 50.00 split, got %s / %s",
			results.Results[0].Percentage, results.Results[2].Percentage)
	}
}

func TestHasUserVoted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)
	voter := createTestUser(t, db, "voter@example.com", models.RoleUser)

	vote := createTestVote(t, svc, creator.ID, 1, nil, "X", "Y")

	voted, err := svc.HasUserVoted(vote.ID, voter.ID)
	if err != nil {
		t.Fatalf("HasUserVoted failed: %v", err)
	}
	if voted {
		t.Error("Expected has_voted false before submission")
	}

	if err := svc.SubmitVote(vote.ID, voter.ID, []uint{vote.Options[0].ID}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	voted, err = svc.HasUserVoted(vote.ID, voter.ID)
	if err != nil {
		t.Fatalf("HasUserVoted failed: %v", err)
	}
	if !voted {
		t.Error("Expected has_voted true after submission")
	}
}

func TestFindAllActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)
	creator := createTestUser(t, db, "creator@example.com", models.RoleUser)

	active := createTestVote(t, svc, creator.ID, 1, nil, "X", "Y")
	retired := createTestVote(t, svc, creator.ID, 1, nil, "A", "B")
	if err := db.Model(&models.Vote{}).Where("id = ?", retired.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("Failed to deactivate vote: %v", err)
	}

	votes, err := svc.FindAllActive()
	if err != nil {
		t.Fatalf("FindAllActive failed: %v", err)
	}
	if len(votes) != 1 || votes[0].ID != active.ID {
		t.Errorf("Expected only the active vote, got %d rows", len(votes))
	}
}

func TestFindByIDWithOptionsMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVoteService(db)

	vote, err := svc.FindByIDWithOptions(12345)
	if err != nil {
		t.Fatalf("Expected no error for missing vote, got %v", err)
	}
	if vote != nil {
		t.Error("Expected nil for missing vote")
	}
}

func TestVoteStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		vote     models.Vote
		expected string
	}{
		{"scheduled", models.Vote{IsActive: true, StartTime: future}, models.VoteStatusScheduled},
		{"open ended", models.Vote{IsActive: true, StartTime: past}, models.VoteStatusOpen},
		{"open with future end", models.Vote{IsActive: true, StartTime: past, EndTime: &future}, models.VoteStatusOpen},
		{"closed by end time", models.Vote{IsActive: true, StartTime: past.Add(-time.Hour), EndTime: &past}, models.VoteStatusClosed},
		{"closed by flag", models.Vote{IsActive: false, StartTime: past}, models.VoteStatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vote.Status(now); got != tt.expected {
				t.Errorf("Expected status %s, got %s", tt.expected, got)
			}
		})
	}
}
