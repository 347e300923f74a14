package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pilateslab/catalog/internal/exercises"
	"github.com/pilateslab/catalog/internal/users"
)

// handleListExercises serves the feed: the full stored set in display
// order, narrowed by any query-string filters. Accounts with the mat role
// only ever see the mat category, whatever they ask for.
func (h *httpHandler) handleListExercises(c *gin.Context) {
	filter := exercises.Filter{
		MachineType: c.Query("machine_type"),
		Query:       c.Query("q"),
		Levels:      c.QueryArray("level"),
	}
	if claims, ok := requestClaims(c); ok && claims.Role == users.RoleMat {
		filter.MachineType = "mat"
	}

	ordered, err := h.exercises.List(c.Request.Context())
	if err != nil {
		h.logger.Error("exercise listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "exercise_list_failed"})
		return
	}

	c.JSON(http.StatusOK, filter.Apply(ordered))
}

func (h *httpHandler) handleGetExercise(c *gin.Context) {
	exercise, err := h.exercises.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, exercises.ErrExerciseNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "exercise not found"})
		return
	}
	if err != nil {
		h.logger.Error("exercise lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "exercise_lookup_failed"})
		return
	}

	c.JSON(http.StatusOK, exercise)
}

func (h *httpHandler) handleSync(c *gin.Context) {
	result := h.exercises.Sync(c.Request.Context())

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"message": result.Message, "count": result.Count})
}
