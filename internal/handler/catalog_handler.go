package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizrun/quizrun-backend/internal/catalog"
	"github.com/quizrun/quizrun-backend/internal/model"
	"github.com/quizrun/quizrun-backend/internal/response"
)

type CatalogHandler struct {
	catalogService *catalog.Service
}

func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetFolders godoc
// GET /api/v1/catalog
func (h *CatalogHandler) GetFolders(c *gin.Context) {
	folders, err := h.catalogService.Folders(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrQuizLoadFailed)
		return
	}

	if folders == nil {
		folders = []model.Folder{}
	}

	response.Success(c, http.StatusOK, gin.H{"folders": folders})
}

// GetQuiz godoc
// GET /api/v1/catalog/:folder_id/quizzes/:file
func (h *CatalogHandler) GetQuiz(c *gin.Context) {
	folderID := c.Param("folder_id")
	file := c.Param("file")

	questions, err := h.catalogService.QuestionSet(c.Request.Context(), folderID, file)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidQuiz) {
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrQuizInvalid)
			return
		}
		response.Fail(c, http.StatusNotFound, response.ErrQuizLoadFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"folder_id": folderID,
		"file":      file,
		"questions": questions,
	})
}
