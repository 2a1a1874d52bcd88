package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type excelRaporLister interface {
	List(ctx context.Context, filter models.RaporFilter) ([]models.Rapor, error)
}

// ExcelResult is a rendered workbook ready to stream.
type ExcelResult struct {
	Data     []byte
	Filename string
}

// ExcelService renders the filtered report list as an .xlsx workbook.
type ExcelService struct {
	raporlar excelRaporLister
	logger   *zap.Logger
	now      func() time.Time
}

// NewExcelService constructs the service.
func NewExcelService(raporlar excelRaporLister, logger *zap.Logger) *ExcelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExcelService{
		raporlar: raporlar,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var excelColumns = []struct {
	Header string
	Width  float64
	Value  func(r models.Rapor) any
}{
	{"Rapor No", 16, func(r models.Rapor) any { return r.RaporNo }},
	{"Proje", 24, func(r models.Rapor) any { return r.ProjeAdi }},
	{"Şehir", 14, func(r models.Rapor) any { return r.Sehir }},
	{"Ekipman Adı", 26, func(r models.Rapor) any { return r.EkipmanAdi }},
	{"Kategori", 20, func(r models.Rapor) any { return r.Kategori }},
	{"Alt Kategori", 20, func(r models.Rapor) any { return deref(r.AltKategori) }},
	{"Firma", 22, func(r models.Rapor) any { return r.Firma }},
	{"Lokasyon", 18, func(r models.Rapor) any { return deref(r.Lokasyon) }},
	{"Marka/Model", 18, func(r models.Rapor) any { return deref(r.MarkaModel) }},
	{"Seri No", 16, func(r models.Rapor) any { return deref(r.SeriNo) }},
	{"Periyot", 12, func(r models.Rapor) any { return deref(r.Periyot) }},
	{"Geçerlilik", 14, func(r models.Rapor) any { return deref(r.GecerlilikTarihi) }},
	{"Uygunluk", 14, func(r models.Rapor) any { return deref(r.Uygunluk) }},
	{"Durum", 10, func(r models.Rapor) any { return r.Durum }},
	{"Oluşturan", 16, func(r models.Rapor) any { return r.CreatedByUsername }},
	{"Oluşturma Tarihi", 18, func(r models.Rapor) any { return r.CreatedAt.Format("2006-01-02 15:04") }},
}

// Export renders every report the actor may see under the given filter.
// Viewers are pinned to their own company regardless of the filter.
func (s *ExcelService) Export(ctx context.Context, filter models.RaporFilter, actor *models.JWTClaims) (*ExcelResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleViewer {
		filter.Firma = actor.FirmaAdi
	}
	// Exports ignore pagination; cap stays generous to bound memory.
	filter.Limit = 10000
	filter.Skip = 0

	raporlar, err := s.raporlar.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch reports")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Raporlar"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Debug("default sheet not removed", zap.Error(err))
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range excelColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.Header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, name, name, col.Width)
	}

	for rowIdx, rapor := range raporlar {
		for colIdx, col := range excelColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, col.Value(rapor))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render workbook")
	}

	filename := fmt.Sprintf("raporlar_%s.xlsx", s.now().Format("2006-01-02"))
	s.logger.Info("excel export rendered", zap.Int("rapor_count", len(raporlar)), zap.Int("bytes", buf.Len()))

	return &ExcelResult{Data: buf.Bytes(), Filename: filename}, nil
}
