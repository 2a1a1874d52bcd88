package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type dirFileOpener struct {
	dir string
}

func (o *dirFileOpener) Open(filename string) (*os.File, error) {
	return os.Open(filepath.Join(o.dir, filename))
}

func newTestZipService(t *testing.T, store *raporStoreStub, media *mediaStoreStub) *ZipExportService {
	t.Helper()
	dir := t.TempDir()
	for _, d := range media.dosyalar {
		path := filepath.Join(dir, d.DosyaYolu)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("content of "+d.DosyaAdi), 0o644))
	}
	svc := NewZipExportService(store, media, &dirFileOpener{dir: dir}, 100, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC) }
	return svc
}

func zipEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string]string)
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		buf := new(bytes.Buffer)
		_, err = buf.ReadFrom(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = buf.String()
	}
	return entries
}

func TestZipExportGroupsByKategori(t *testing.T) {
	store := newRaporStoreStub(
		models.Rapor{ID: "r-1", RaporNo: "PK2025-ANK001", Kategori: "Kaldırma", Firma: "Firma A", EkipmanAdi: "Vinç"},
		models.Rapor{ID: "r-2", RaporNo: "PK2025-ANK002", Kategori: "Basınçlı Kap", Firma: "Firma A", EkipmanAdi: "Kazan"},
	)
	media := &mediaStoreStub{dosyalar: []models.MediaDosya{
		{ID: "m-1", RaporID: "r-1", DosyaAdi: "foto.jpg", DosyaYolu: "r-1/foto.jpg"},
	}}
	svc := newTestZipService(t, store, media)

	result, err := svc.Export(context.Background(), []string{"r-1", "r-2"}, adminClaims())
	require.NoError(t, err)

	assert.Equal(t, "Raporlar_2Kategori_2Rapor_20250615_1430.zip", result.Filename)
	assert.Equal(t, 2, result.RaporCount)
	assert.Equal(t, 2, result.KategoriCount)

	entries := zipEntries(t, result.Data)
	require.Contains(t, entries, "Kaldırma/RAPOR_PK2025-ANK001/bilgi.txt")
	require.Contains(t, entries, "Kaldırma/RAPOR_PK2025-ANK001/foto.jpg")
	require.Contains(t, entries, "Basınçlı Kap/RAPOR_PK2025-ANK002/bilgi.txt")

	bilgi := entries["Kaldırma/RAPOR_PK2025-ANK001/bilgi.txt"]
	assert.Contains(t, bilgi, "PK2025-ANK001")
	assert.Contains(t, bilgi, "Vinç")
	assert.Contains(t, entries["Kaldırma/RAPOR_PK2025-ANK001/foto.jpg"], "content of foto.jpg")
}

func TestZipExportEmptySelection(t *testing.T) {
	svc := newTestZipService(t, newRaporStoreStub(), &mediaStoreStub{})

	_, err := svc.Export(context.Background(), nil, adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestZipExportOverLimit(t *testing.T) {
	svc := newTestZipService(t, newRaporStoreStub(), &mediaStoreStub{})

	ids := make([]string, 101)
	for i := range ids {
		ids[i] = fmt.Sprintf("r-%d", i)
	}
	_, err := svc.Export(context.Background(), ids, adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrLimitExceeded.Code))
}

func TestZipExportUnknownIDs(t *testing.T) {
	svc := newTestZipService(t, newRaporStoreStub(), &mediaStoreStub{})

	_, err := svc.Export(context.Background(), []string{"missing"}, adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}

func TestZipExportViewerLimitedToOwnFirma(t *testing.T) {
	store := newRaporStoreStub(
		models.Rapor{ID: "r-1", RaporNo: "PK2025-ANK001", Kategori: "Kaldırma", Firma: "Firma A"},
		models.Rapor{ID: "r-2", RaporNo: "PK2025-ANK002", Kategori: "Kaldırma", Firma: "Firma B"},
	)
	svc := newTestZipService(t, store, &mediaStoreStub{})

	result, err := svc.Export(context.Background(), []string{"r-1", "r-2"}, viewerClaims("Firma A"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.RaporCount)

	entries := zipEntries(t, result.Data)
	assert.Contains(t, entries, "Kaldırma/RAPOR_PK2025-ANK001/bilgi.txt")
	assert.NotContains(t, entries, "Kaldırma/RAPOR_PK2025-ANK002/bilgi.txt")
}

func TestZipExportMissingAttachmentSkipped(t *testing.T) {
	store := newRaporStoreStub(
		models.Rapor{ID: "r-1", RaporNo: "PK2025-ANK001", Kategori: "Kaldırma", Firma: "Firma A"},
	)
	media := &mediaStoreStub{dosyalar: []models.MediaDosya{
		{ID: "m-1", RaporID: "r-1", DosyaAdi: "kayip.pdf", DosyaYolu: "r-1/kayip.pdf"},
	}}
	dir := t.TempDir() // attachment intentionally absent on disk
	svc := NewZipExportService(store, media, &dirFileOpener{dir: dir}, 100, nil)

	result, err := svc.Export(context.Background(), []string{"r-1"}, adminClaims())
	require.NoError(t, err)

	entries := zipEntries(t, result.Data)
	assert.Contains(t, entries, "Kaldırma/RAPOR_PK2025-ANK001/bilgi.txt")
	assert.NotContains(t, entries, "Kaldırma/RAPOR_PK2025-ANK001/kayip.pdf")
}
