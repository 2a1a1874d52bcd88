package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
	"github.com/ekos-sistemi/ekos-api/pkg/response"
)

type mediaService interface {
	List(ctx context.Context, raporID string, actor *models.JWTClaims) ([]models.MediaDosya, error)
	Upload(ctx context.Context, raporID, filename, mimeType string, size int64, r io.Reader, actor *models.JWTClaims) (*models.MediaDosya, error)
}

// MediaHandler serves report attachment endpoints.
type MediaHandler struct {
	service mediaService
}

// NewMediaHandler constructs the handler.
func NewMediaHandler(svc mediaService) *MediaHandler {
	return &MediaHandler{service: svc}
}

// List godoc
// @Summary List attachments of a report
// @Tags Medya
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /raporlar/{id}/medya [get]
func (h *MediaHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dosyalar, err := h.service.List(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dosyalar, nil)
}

// Upload godoc
// @Summary Upload an attachment to a report
// @Tags Medya
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Report id"
// @Param dosya formData file true "Attachment file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /raporlar/{id}/medya [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("dosya")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "dosya alanı zorunludur"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	dosya, err := h.service.Upload(
		c.Request.Context(),
		c.Param("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
		claims,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, dosya, nil)
}
