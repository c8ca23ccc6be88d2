package routes

import (
	"errors"
	"net/http"

	"patent-insight-backend/internal/logger"
	"patent-insight-backend/services"
	"patent-insight-backend/utils"

	"github.com/gin-gonic/gin"
)

// SetupAnalyzeRoutes registers the document analysis endpoint.
func SetupAnalyzeRoutes(router *gin.Engine, analysis *services.AnalysisService) {
	router.GET("/analyze/:document_id", func(c *gin.Context) {
		documentID := c.Param("document_id")
		if documentID == "" {
			utils.RespondWithBadRequest(c, "Document ID is required.")
			return
		}

		logger.Info("starting analysis", "document_id", documentID)

		result, err := analysis.AnalyzePatent(c.Request.Context(), documentID)
		if err != nil {
			if errors.Is(err, services.ErrDocumentNotFound) {
				utils.RespondWithNotFound(c, "Analysis not found or failed for document ID: "+documentID)
				return
			}
			logger.Error("analysis error", "document_id", documentID, "error", err)
			utils.RespondWithInternalError(c, "Internal server error during analysis.")
			return
		}

		logger.Info("analysis completed", "document_id", documentID)
		c.JSON(http.StatusOK, result)
	})
}
