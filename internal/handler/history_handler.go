package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizrun/quizrun-backend/internal/history"
	"github.com/quizrun/quizrun-backend/internal/model"
	"github.com/quizrun/quizrun-backend/internal/response"
	"github.com/quizrun/quizrun-backend/internal/stats"
)

type HistoryHandler struct {
	store *history.Store
}

func NewHistoryHandler(store *history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// GetAll godoc
// GET /api/v1/history
func (h *HistoryHandler) GetAll(c *gin.Context) {
	all := h.store.All(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"history": all})
}

// GetByKey godoc
// GET /api/v1/history/*key
// Returns the attempts plus the derived statistics the score screen shows:
// summary, trend, per-attempt chart points and the rating of the last run.
func (h *HistoryHandler) GetByKey(c *gin.Context) {
	key, ok := quizKeyParam(c)
	if !ok {
		return
	}

	attempts := h.store.Attempts(c.Request.Context(), key)
	if attempts == nil {
		attempts = []model.AttemptRecord{}
	}

	summary := stats.Summarize(attempts)

	payload := gin.H{
		"key":      key,
		"attempts": attempts,
		"summary":  summary,
		"trend":    stats.Trend(attempts),
		"chart":    stats.ChartPoints(attempts),
	}
	if len(attempts) > 0 {
		payload["rating"] = stats.Rating(summary.LastScore)
	}

	response.Success(c, http.StatusOK, payload)
}

// DeleteByKey godoc
// DELETE /api/v1/history/*key
func (h *HistoryHandler) DeleteByKey(c *gin.Context) {
	key, ok := quizKeyParam(c)
	if !ok {
		return
	}

	h.store.Clear(c.Request.Context(), key)
	response.Success(c, http.StatusOK, gin.H{"message": "history cleared"})
}

// DeleteAll godoc
// DELETE /api/v1/history
func (h *HistoryHandler) DeleteAll(c *gin.Context) {
	h.store.ClearAll(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"message": "history cleared"})
}

// quizKeyParam extracts the wildcard key segment. Gin keeps the leading
// slash on wildcard params; history keys never carry one.
func quizKeyParam(c *gin.Context) (string, bool) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return key, true
}
