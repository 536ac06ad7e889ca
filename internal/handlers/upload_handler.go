package handlers

import (
	"net/http"
	"strings"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/repositories"
	"github.com/chrischiuowo/space-room-api/pkg/logger"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const uploadFolder = "space-room/posts"

// UploadHandler pushes post images to Cloudinary and records them in
// PostgreSQL so they can be destroyed later by hash.
type UploadHandler struct {
	uploadRepository repositories.UploadRepository
	cld              *cloudinary.Cloudinary
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadRepo repositories.UploadRepository, cld *cloudinary.Cloudinary) *UploadHandler {
	return &UploadHandler{uploadRepository: uploadRepo, cld: cld}
}

// RegisterUploadRoutes registers upload-related routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/upload", h.UploadImages)
	g.DELETE("/delete_upload/:hash", h.DeleteUpload)
}

// UploadImages accepts multipart "images" files, uploads each to Cloudinary
// and returns the hosted URL plus a delete hash per file.
func (h *UploadHandler) UploadImages(c echo.Context) error {
	if h.cld == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "image storage is not configured")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form is required")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no images provided")
	}

	ctx := c.Request().Context()
	userID := currentUserID(c)
	results := make([]models.Upload, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "failed to read image")
		}

		hash := strings.ReplaceAll(uuid.NewString(), "-", "")
		uploaded, err := h.cld.Upload.Upload(ctx, src, uploader.UploadParams{
			Folder:         uploadFolder,
			PublicID:       hash,
			Transformation: "c_limit,w_1280,q_auto",
		})
		src.Close()
		if err != nil {
			logger.Logger.Error("cloudinary upload failed", zap.String("file", file.Filename), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to upload image")
		}

		record := models.Upload{
			Hash:     hash,
			PublicID: uploaded.PublicID,
			URL:      uploaded.SecureURL,
			UserID:   userID,
		}
		if err := h.uploadRepository.CreateUpload(&record); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		results = append(results, record)
	}

	return respond(c, http.StatusCreated, "images uploaded", results)
}

// DeleteUpload destroys the Cloudinary asset behind a delete hash and drops
// its record. Only the uploader may delete.
func (h *UploadHandler) DeleteUpload(c echo.Context) error {
	hash := c.Param("hash")

	upload, err := h.uploadRepository.GetUploadByHash(hash)
	if err == gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "upload not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if upload.UserID != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not the uploader")
	}

	if h.cld != nil {
		_, err = h.cld.Upload.Destroy(c.Request().Context(), uploader.DestroyParams{PublicID: upload.PublicID})
		if err != nil {
			logger.Logger.Error("cloudinary destroy failed", zap.String("public_id", upload.PublicID), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete image")
		}
	}

	if err := h.uploadRepository.DeleteUploadByHash(hash); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "image deleted", nil)
}
