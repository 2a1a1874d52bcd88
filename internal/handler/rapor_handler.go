package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ekos-sistemi/ekos-api/internal/dto"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	"github.com/ekos-sistemi/ekos-api/internal/service"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
	"github.com/ekos-sistemi/ekos-api/pkg/response"
)

type raporService interface {
	List(ctx context.Context, filter models.RaporFilter, actor *models.JWTClaims) ([]models.Rapor, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Rapor, error)
	Create(ctx context.Context, req dto.CreateRaporRequest, actor *models.JWTClaims) (*models.Rapor, error)
	Update(ctx context.Context, id string, req dto.UpdateRaporRequest, actor *models.JWTClaims) (*models.Rapor, error)
	ToggleDurum(ctx context.Context, id string, actor *models.JWTClaims) (*dto.DurumResponse, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
	BulkDelete(ctx context.Context, ids []string, actor *models.JWTClaims) (*dto.BulkDeleteResponse, error)
}

type zipExportService interface {
	Export(ctx context.Context, raporIDs []string, actor *models.JWTClaims) (*service.ZipResult, error)
}

// RaporHandler manages inspection report HTTP endpoints.
type RaporHandler struct {
	service   raporService
	zipExport zipExportService
}

// NewRaporHandler constructs the handler.
func NewRaporHandler(svc raporService, zipExport zipExportService) *RaporHandler {
	return &RaporHandler{service: svc, zipExport: zipExport}
}

// List godoc
// @Summary List inspection reports
// @Tags Raporlar
// @Produce json
// @Param arama query string false "Search over rapor_no, ekipman_adi, firma"
// @Param kategori query string false "Category filter"
// @Param periyot query string false "Inspection period filter"
// @Param uygunluk query string false "Compliance filter"
// @Param firma query string false "Company filter"
// @Param proje_id query string false "Project filter"
// @Param limit query int false "Page size"
// @Param skip query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /raporlar [get]
func (h *RaporHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.RaporFilter{
		Arama:    c.Query("arama"),
		Kategori: c.Query("kategori"),
		Periyot:  c.Query("periyot"),
		Uygunluk: c.Query("uygunluk"),
		Firma:    c.Query("firma"),
		ProjeID:  c.Query("proje_id"),
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Limit = v
		}
	}
	if raw := c.Query("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Skip = v
		}
	}

	raporlar, err := h.service.List(c.Request.Context(), filter, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, raporlar, nil)
}

// Get godoc
// @Summary Get a single report
// @Tags Raporlar
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /raporlar/{id} [get]
func (h *RaporHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rapor, err := h.service.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rapor, nil)
}

// Create godoc
// @Summary Create a report
// @Tags Raporlar
// @Accept json
// @Produce json
// @Param payload body dto.CreateRaporRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /raporlar [post]
func (h *RaporHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateRaporRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}

	rapor, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, rapor, nil)
}

// Update godoc
// @Summary Update a report
// @Tags Raporlar
// @Accept json
// @Produce json
// @Param id path string true "Report id"
// @Param payload body dto.UpdateRaporRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /raporlar/{id} [put]
func (h *RaporHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateRaporRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}

	rapor, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rapor, nil)
}

// ToggleDurum godoc
// @Summary Toggle report status between Aktif and Pasif
// @Tags Raporlar
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /raporlar/{id}/durum [patch]
func (h *RaporHandler) ToggleDurum(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.ToggleDurum(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Delete godoc
// @Summary Delete a report and its attachments
// @Tags Raporlar
// @Produce json
// @Param id path string true "Report id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /raporlar/{id} [delete]
func (h *RaporHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete multiple reports in one call
// @Description All-or-nothing: either every selected report is deleted or none are
// @Tags Raporlar
// @Accept json
// @Produce json
// @Param payload body []string true "Report ids"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /raporlar/bulk-delete [post]
func (h *RaporHandler) BulkDelete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid id list"))
		return
	}

	res, err := h.service.BulkDelete(c.Request.Context(), ids, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// ZipExport godoc
// @Summary Export selected reports as a ZIP archive
// @Description Reports are grouped by category; each report folder carries a bilgi.txt summary and its attachments
// @Tags Raporlar
// @Accept json
// @Produce application/zip
// @Param payload body dto.ZipExportRequest true "Report selection"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /raporlar/zip-export [post]
func (h *RaporHandler) ZipExport(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ZipExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	result, err := h.zipExport.Export(c.Request.Context(), req.RaporIDs, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/zip", result.Data)
}
