package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"progressly/api/internal/models"
	"progressly/api/internal/service"
)

type contributionResponse struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

type goalResponse struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	Target        float64                `json:"target"`
	Progress      float64                `json:"progress"`
	Contributions []contributionResponse `json:"contributions"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

func newGoalResponse(goal models.Goal) goalResponse {
	contributions := make([]contributionResponse, 0, len(goal.Contributions))
	for _, c := range goal.Contributions {
		contributions = append(contributions, contributionResponse{
			ID:     c.ID,
			Amount: c.Amount,
			Date:   c.CreatedAt,
		})
	}
	return goalResponse{
		ID:            goal.ID,
		Title:         goal.Title,
		Description:   goal.Description,
		Target:        goal.Target,
		Progress:      goal.Progress(),
		Contributions: contributions,
		CreatedAt:     goal.CreatedAt,
		UpdatedAt:     goal.UpdatedAt,
	}
}

type goalRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Target      float64 `json:"target"`
}

func (h HandlerSet) CreateGoal(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a title and target for the goal."})
		return
	}

	goal, err := h.goals.Create(c.Request.Context(), userID, service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
	})
	if err != nil {
		h.fail(c, err, "create-goal")
		return
	}

	c.JSON(http.StatusCreated, newGoalResponse(goal))
}

func (h HandlerSet) ListGoals(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	goals, err := h.goals.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "list-goals")
		return
	}

	resp := make([]goalResponse, 0, len(goals))
	for _, goal := range goals {
		resp = append(resp, newGoalResponse(goal))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) GetGoal(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	goal, err := h.goals.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "get-goal")
		return
	}

	c.JSON(http.StatusOK, newGoalResponse(goal))
}

func (h HandlerSet) UpdateGoal(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid goal payload."})
		return
	}

	goal, err := h.goals.Update(c.Request.Context(), userID, c.Param("id"), service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
	})
	if err != nil {
		h.fail(c, err, "update-goal")
		return
	}

	c.JSON(http.StatusOK, newGoalResponse(goal))
}

func (h HandlerSet) DeleteGoal(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	if err := h.goals.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err, "delete-goal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

type contributionRequest struct {
	Amount float64 `json:"amount"`
}

func (h HandlerSet) AddContribution(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}

	var req contributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a valid contribution amount."})
		return
	}

	goal, err := h.goals.Contribute(c.Request.Context(), userID, c.Param("id"), req.Amount)
	if err != nil {
		h.fail(c, err, "add-contribution")
		return
	}

	c.JSON(http.StatusCreated, newGoalResponse(goal))
}
