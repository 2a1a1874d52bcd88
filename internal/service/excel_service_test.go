package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

func TestExcelExportRendersRows(t *testing.T) {
	uygunluk := models.UygunlukUygun
	store := newRaporStoreStub(models.Rapor{
		ID:                "r-1",
		RaporNo:           "PK2025-ANK001",
		ProjeAdi:          "Santral Bakım",
		Sehir:             "Ankara",
		EkipmanAdi:        "Vinç",
		Kategori:          "Kaldırma",
		Firma:             "Firma A",
		Uygunluk:          &uygunluk,
		Durum:             models.DurumAktif,
		CreatedByUsername: "inspector",
		CreatedAt:         time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	svc := NewExcelService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

	result, err := svc.Export(context.Background(), models.RaporFilter{}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, "raporlar_2025-06-15.xlsx", result.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Raporlar")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Rapor No", rows[0][0])
	assert.Equal(t, "PK2025-ANK001", rows[1][0])
	assert.Equal(t, "Vinç", rows[1][3])
	assert.Equal(t, "Uygun", rows[1][12])
}

func TestExcelExportPinsViewerFilter(t *testing.T) {
	store := newRaporStoreStub(
		models.Rapor{ID: "r-1", RaporNo: "PK2025-ANK001", Firma: "Firma A"},
		models.Rapor{ID: "r-2", RaporNo: "PK2025-ANK002", Firma: "Firma B"},
	)
	svc := NewExcelService(store, nil)

	_, err := svc.Export(context.Background(), models.RaporFilter{Firma: "Firma B"}, viewerClaims("Firma A"))
	require.NoError(t, err)
	assert.Equal(t, "Firma A", store.listFilter.Firma)
}
