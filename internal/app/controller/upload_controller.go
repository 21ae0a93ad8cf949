package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/jkim/roastery-backend/internal/errors"
	"github.com/jkim/roastery-backend/internal/middleware"
	"github.com/jkim/roastery-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type ProductImageUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
}

// GenerateProductImageURL issues a presigned upload URL for a product image
// POST /api/v1/upload/product-image (admin)
func (ctrl *UploadController) GenerateProductImageURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product image upload request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Rejected product image content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Only image files are allowed (JPEG, PNG, WEBP)",
		})
		return
	}

	response, err := ctrl.storage.GeneratePresignedUploadURL(req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to generate presigned upload URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.InternalError(c, apperrors.UploadFailed, "failed to generate upload URL")
		return
	}

	log.Info("Product image upload URL generated", map[string]interface{}{
		"key": response.Key,
	})

	c.JSON(http.StatusOK, response)
}
