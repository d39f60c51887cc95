package handlers

import (
	"net/http"
	"strconv"

	"quizvote/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

type RecordAttemptRequest struct {
	UserAnswer interface{} `json:"user_answer" binding:"required"`
	IsCorrect  bool        `json:"is_correct"`
	TimeSpent  int         `json:"time_spent" binding:"min=0"`
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

func (h *QuizHandler) List(c *gin.Context) {
	filters := services.QuizFilters{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Type:       c.Query("type"),
	}

	quizzes, err := h.quizService.List(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetByID(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetByID(quizID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if quiz == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) GetRandom(c *gin.Context) {
	filters := services.QuizFilters{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Type:       c.Query("type"),
	}

	quiz, err := h.quizService.GetRandom(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if quiz == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No quiz matches the filters"})
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Create(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.Create(userID.(uint), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) Update(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.Update(quizID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if quiz == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Delete(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.SoftDelete(quizID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

func (h *QuizHandler) RecordAttempt(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RecordAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.quizService.RecordAttempt(userID.(uint), quizID, req.UserAnswer, req.IsCorrect, req.TimeSpent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

func (h *QuizHandler) GetStats(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.quizService.GetStats(quizID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *QuizHandler) ListCategories(c *gin.Context) {
	categories, err := h.quizService.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *QuizHandler) GetCategoryStats(c *gin.Context) {
	counts, err := h.quizService.GetCategoryStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, counts)
}
