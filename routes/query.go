package routes

import (
	"net/http"
	"strings"

	"patent-insight-backend/internal/logger"
	"patent-insight-backend/models"
	"patent-insight-backend/services"
	"patent-insight-backend/utils"

	"github.com/gin-gonic/gin"
)

// SetupQueryRoutes registers the question-answering endpoint.
func SetupQueryRoutes(router *gin.Engine, retrieval *services.RetrievalService) {
	router.POST("/query", func(c *gin.Context) {
		var req models.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "No question provided.")
			return
		}

		if strings.TrimSpace(req.Question) == "" {
			utils.RespondWithBadRequest(c, "No question provided.")
			return
		}

		logger.Info("query received", "question_length", len(req.Question), "document_id", req.DocumentID)

		result, err := retrieval.Query(c.Request.Context(), req.Question, req.DocumentID)
		if err != nil {
			logger.Error("query error", "error", err)
			utils.RespondWithInternalError(c, "An error occurred while processing your question: "+err.Error())
			return
		}

		c.JSON(http.StatusOK, result)
	})
}
