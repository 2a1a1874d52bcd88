package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	"github.com/ekos-sistemi/ekos-api/internal/service"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
	"github.com/ekos-sistemi/ekos-api/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type excelService interface {
	Export(ctx context.Context, filter models.RaporFilter, actor *models.JWTClaims) (*service.ExcelResult, error)
}

// ExportHandler serves spreadsheet exports of the report list.
type ExportHandler struct {
	excel excelService
}

// NewExportHandler constructs the handler.
func NewExportHandler(excel excelService) *ExportHandler {
	return &ExportHandler{excel: excel}
}

// Excel godoc
// @Summary Export the filtered report list as .xlsx
// @Tags Raporlar
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param arama query string false "Search over rapor_no, ekipman_adi, firma"
// @Param kategori query string false "Category filter"
// @Param periyot query string false "Inspection period filter"
// @Param uygunluk query string false "Compliance filter"
// @Param firma query string false "Company filter"
// @Param proje_id query string false "Project filter"
// @Success 200 {file} binary
// @Router /raporlar/excel-export [get]
func (h *ExportHandler) Excel(c *gin.Context) {
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

	result, err := h.excel.Export(c.Request.Context(), filter, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, xlsxContentType, result.Data)
}
