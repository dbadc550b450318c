package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizrun/quizrun-backend/internal/model"
	"github.com/quizrun/quizrun-backend/internal/response"
	"github.com/quizrun/quizrun-backend/internal/session"
	"github.com/quizrun/quizrun-backend/internal/validator"
)

type SessionHandler struct {
	manager *session.Manager
}

func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Create godoc
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	s, err := h.manager.Start(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, session.ErrNoSelection) {
			response.Fail(c, http.StatusBadRequest, response.ErrNoQuizSelected)
			return
		}
		if errors.Is(err, session.ErrAmbiguousSelection) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": s.Snapshot()})
}

// Get godoc
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": s.Snapshot()})
}

// Delete godoc
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	h.manager.Remove(id)
	response.Success(c, http.StatusOK, gin.H{"message": "session closed"})
}

// SubmitAnswer godoc
// POST /api/v1/sessions/:id/answers
// Accepts either an answer index or a keyboard digit; the digit form is
// silently ignored when it cannot apply, mirroring keyboard shortcuts.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	switch {
	case req.Index != nil:
		if err := s.Submit(*req.Index); err != nil {
			failSession(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"session": s.Snapshot()})

	case req.Digit != nil:
		accepted, err := s.SubmitDigit(*req.Digit)
		if err != nil {
			failSession(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{
			"accepted": accepted,
			"session":  s.Snapshot(),
		})

	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	}
}

// StartPractice godoc
// POST /api/v1/sessions/:id/practice
func (h *SessionHandler) StartPractice(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := s.StartPractice(); err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": s.Snapshot()})
}

// ExitPractice godoc
// POST /api/v1/sessions/:id/practice/exit
func (h *SessionHandler) ExitPractice(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := s.ExitPractice(); err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": s.Snapshot()})
}

// EnterReview godoc
// POST /api/v1/sessions/:id/review
func (h *SessionHandler) EnterReview(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := s.EnterReview(); err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": s.Snapshot()})
}

// ExitReview godoc
// POST /api/v1/sessions/:id/review/exit
func (h *SessionHandler) ExitReview(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := s.ExitReview(); err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": s.Snapshot()})
}

// GetReview godoc
// GET /api/v1/sessions/:id/review
func (h *SessionHandler) GetReview(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	rows, err := s.ReviewRows()
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": rows})
}

// Restart godoc
// POST /api/v1/sessions/:id/restart
func (h *SessionHandler) Restart(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := s.Restart(); err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": s.Snapshot()})
}

func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}

	s, err := h.manager.Get(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return nil, false
	}
	return s, true
}

// failSession maps session state machine errors onto API error codes.
func failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrAlreadyAnswered):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyAnswered)
	case errors.Is(err, session.ErrNotAnswerable):
		response.Fail(c, http.StatusConflict, response.ErrNotAnswerable)
	case errors.Is(err, session.ErrAnswerOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidAnswer)
	case errors.Is(err, session.ErrWrongPhase):
		response.Fail(c, http.StatusConflict, response.ErrWrongPhase)
	case errors.Is(err, session.ErrNoWrongAnswers):
		response.Fail(c, http.StatusConflict, response.ErrNoWrongAnswers)
	case errors.Is(err, session.ErrErrored):
		response.Fail(c, http.StatusConflict, response.ErrSessionErrored)
	case errors.Is(err, session.ErrClosed), errors.Is(err, session.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
