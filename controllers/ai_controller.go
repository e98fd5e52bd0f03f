package controllers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/freshai/freshai-backend/services"
	"github.com/freshai/freshai-backend/utils"
	"github.com/gin-gonic/gin"
)

// AnalyzeImage handles POST /ai/analyze - runs defect detection on an
// uploaded garment photo and returns the recommended care action
func AnalyzeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	content, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}

	detector := services.GetDetector()
	if detector == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DETECTOR_UNAVAILABLE",
				"message": "Defect detection is not configured",
			},
		})
		return
	}

	result, err := services.AnalyzeImageBytes(detector, content)
	if err != nil {
		log.Printf("Image analysis failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLASSIFIER_ERROR",
				"message": "Failed to analyze image",
			},
		})
		return
	}

	// Keep a copy of the analyzed image when an archive bucket is
	// configured. Best-effort: failures are logged, never surfaced.
	if archive := services.GetArchive(); archive != nil {
		if _, err := archive.StoreImage(filepath.Base(fileHeader.Filename), content); err != nil {
			log.Printf("Failed to archive analyzed image: %v", err)
		}
	}

	c.JSON(http.StatusOK, result)
}

// archiveKey extracts the storage key from a wildcard route parameter
func archiveKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}

// GetArchivedImageURL handles GET /ai/archive/*key - returns a temporary
// download URL for an archived analysis image. Admin only.
func GetArchivedImageURL(c *gin.Context) {
	archive := services.GetArchive()
	if archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_UNAVAILABLE",
				"message": "Image archival is not configured",
			},
		})
		return
	}

	key := archiveKey(c)
	url, err := archive.GetPresignedURL(key)
	if err != nil {
		log.Printf("Failed to generate archive URL for key %s: %v", key, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_ERROR",
				"message": "Failed to generate download URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key": key,
		"url": url,
	})
}

// DeleteArchivedImage handles DELETE /ai/archive/*key - removes an archived
// analysis image. Admin only.
func DeleteArchivedImage(c *gin.Context) {
	archive := services.GetArchive()
	if archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_UNAVAILABLE",
				"message": "Image archival is not configured",
			},
		})
		return
	}

	key := archiveKey(c)
	if err := archive.DeleteImage(key); err != nil {
		log.Printf("Failed to delete archived image %s: %v", key, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_ERROR",
				"message": "Failed to delete archived image",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Archived image deleted",
	})
}
