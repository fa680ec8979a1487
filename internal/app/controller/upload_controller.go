package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/heladeria/flavor-catalog/internal/errors"
	"github.com/heladeria/flavor-catalog/internal/middleware"
	"github.com/heladeria/flavor-catalog/internal/storage"
	"github.com/heladeria/flavor-catalog/internal/validation"
)

type UploadController struct {
	storage storage.ImageStorage
}

// NewUploadController accepts a nil storage; every request then answers 503.
func NewUploadController(storage storage.ImageStorage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignImageRequest struct {
	Filename    string `json:"filename" binding:"required,notblank,max=200"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignFlavorImage generates a presigned URL for uploading a flavor image.
// The returned file_url is what clients store as image_path.
// POST /api/uploads/presigned-url
func (ctrl *UploadController) PresignFlavorImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.storage == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadDisabled, "Image uploads are not configured")
		return
	}

	var req PresignImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		if fields := validation.FieldErrors(err); fields != nil {
			apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, "Invalid request data", fields)
			return
		}
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Request body must be a JSON object with filename and content_type")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	upload, err := ctrl.storage.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"key":      upload.Key,
	})
	c.JSON(http.StatusOK, upload)
}
