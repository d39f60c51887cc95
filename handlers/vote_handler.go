package handlers

import (
	"errors"
	"net/http"
	"time"

	"quizvote/models"
	"quizvote/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voteService *services.VoteService
}

func NewVoteHandler(voteService *services.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

type SubmitVoteRequest struct {
	OptionIDs []uint `json:"option_ids" binding:"required,min=1"`
}

// VoteResponse decorates a vote with its derived lifecycle status,
// computed at read time and never stored.
type VoteResponse struct {
	models.Vote
	Status string `json:"status"`
}

func (h *VoteHandler) ListActive(c *gin.Context) {
	votes, err := h.voteService.FindAllActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	responses := make([]VoteResponse, 0, len(votes))
	for _, vote := range votes {
		responses = append(responses, VoteResponse{Vote: vote, Status: vote.Status(now)})
	}

	c.JSON(http.StatusOK, responses)
}

func (h *VoteHandler) GetByID(c *gin.Context) {
	voteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	vote, err := h.voteService.FindByIDWithOptions(voteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if vote == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vote not found"})
		return
	}

	c.JSON(http.StatusOK, VoteResponse{Vote: *vote, Status: vote.Status(time.Now())})
}

func (h *VoteHandler) Create(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vote, err := h.voteService.Create(userID.(uint), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, VoteResponse{Vote: *vote, Status: vote.Status(time.Now())})
}

func (h *VoteHandler) Submit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	voteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SubmitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.voteService.SubmitVote(voteID, userID.(uint), req.OptionIDs); err != nil {
		c.JSON(submitStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vote submitted successfully"})
}

// submitStatus maps voting engine failures to HTTP status codes.
func submitStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, services.ErrVoteNotActive):
		return http.StatusForbidden
	case errors.Is(err, services.ErrVoteEnded):
		return http.StatusGone
	case errors.Is(err, services.ErrTooManyChoices):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *VoteHandler) GetResults(c *gin.Context) {
	voteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	vote, err := h.voteService.FindByIDWithOptions(voteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if vote == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vote not found"})
		return
	}

	results, err := h.voteService.GetResults(voteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *VoteHandler) HasVoted(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	voteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	hasVoted, err := h.voteService.HasUserVoted(voteID, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"has_voted": hasVoted})
}
