package routes

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"patent-insight-backend/internal/config"
	"patent-insight-backend/internal/logger"
	"patent-insight-backend/models"
	"patent-insight-backend/services"
	"patent-insight-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SetupDocumentRoutes registers the upload endpoints.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, ingestion *services.IngestionService) {
	// Readiness probe used by the frontend before offering the upload form.
	router.GET("/upload", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Upload endpoint ready"})
	})

	router.POST("/upload", func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil || header == nil || header.Filename == "" {
			utils.RespondWithBadRequest(c, "No file or filename provided.")
			return
		}
		defer file.Close()

		if err := validateFilename(header.Filename); err != nil {
			utils.RespondWithBadRequest(c, err.Error())
			return
		}
		if header.Size > cfg.MaxFileSize {
			utils.RespondWithBadRequest(c, "File exceeds maximum allowed size.")
			return
		}

		if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
			logger.Error("failed to create upload directory", "error", err)
			utils.RespondWithInternalError(c, "Server error during file processing.")
			return
		}

		// The uploaded file keeps its original base name: that name is the
		// document's public id and the filename_key of every chunk.
		finalPath := filepath.Join(cfg.UploadDir, filepath.Base(header.Filename))
		if err := saveUpload(file, finalPath, cfg.UploadDir); err != nil {
			logger.Error("failed to save upload", "filename", header.Filename, "error", err)
			utils.RespondWithInternalError(c, "Server error during file processing.")
			return
		}

		logger.Info("processing upload", "filename", header.Filename)

		documentID, err := ingestion.IngestPDF(c.Request.Context(), finalPath)
		if err != nil {
			if errors.Is(err, services.ErrFileNotFound) {
				utils.RespondWithBadRequest(c, "File processing error: "+err.Error())
				return
			}
			logger.Error("processing error", "filename", header.Filename, "error", err)
			utils.RespondWithInternalError(c, "Server error during file processing.")
			return
		}

		logger.Info("upload complete", "document_id", documentID)
		c.JSON(http.StatusOK, models.UploadResponse{
			Message:    "PDF uploaded and processed successfully.",
			DocumentID: documentID,
		})
	})
}

// saveUpload streams the file through a temp path and renames it into place
// so a half-written upload is never ingested.
func saveUpload(src io.Reader, finalPath, dir string) error {
	tempPath := filepath.Join(dir, uuid.NewString()+".tmp")
	tempFile, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(tempFile, src); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return err
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

func validateFilename(filename string) error {
	if strings.ContainsAny(filename, "\x00") ||
		strings.Contains(filename, "..") ||
		strings.ContainsRune(filename, os.PathSeparator) {
		return errors.New("Filename contains invalid characters.")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return errors.New("Only PDF files (.pdf extension) are allowed.")
	}
	return nil
}
