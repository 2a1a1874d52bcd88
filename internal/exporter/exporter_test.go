package exporter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekos-sistemi/ekos-api/internal/ekos"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type downloadClientStub struct {
	zipFn   func(ctx context.Context, ids []string) (*ekos.Download, error)
	excelFn func(ctx context.Context, filter models.RaporFilter) (*ekos.Download, error)
}

func (s *downloadClientStub) ZipExport(ctx context.Context, ids []string) (*ekos.Download, error) {
	return s.zipFn(ctx, ids)
}

func (s *downloadClientStub) ExcelExport(ctx context.Context, filter models.RaporFilter) (*ekos.Download, error) {
	return s.excelFn(ctx, filter)
}

func staticDownload(filename, content string) *ekos.Download {
	return &ekos.Download{
		Body:        io.NopCloser(strings.NewReader(content)),
		Filename:    filename,
		ContentType: "application/zip",
		Size:        int64(len(content)),
	}
}

func TestExportZipWritesNamedFile(t *testing.T) {
	dir := t.TempDir()
	client := &downloadClientStub{
		zipFn: func(ctx context.Context, ids []string) (*ekos.Download, error) {
			return staticDownload("Raporlar_1Kategori_2Rapor_20250615_1430.zip", "zip-bytes"), nil
		},
	}
	e := New(client, dir, nil)

	path, err := e.ExportZip(context.Background(), []string{"r-1", "r-2"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Raporlar_1Kategori_2Rapor_20250615_1430.zip"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zip-bytes", string(data))
	assert.False(t, e.Requesting())
}

func TestExportExcelFallsBackToDerivedName(t *testing.T) {
	dir := t.TempDir()
	client := &downloadClientStub{
		excelFn: func(ctx context.Context, filter models.RaporFilter) (*ekos.Download, error) {
			return staticDownload("", "xlsx-bytes"), nil
		},
	}
	e := New(client, dir, nil)
	e.now = func() time.Time { return time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC) }

	path, err := e.ExportExcel(context.Background(), models.RaporFilter{Kategori: "Kaldırma"})
	require.NoError(t, err)
	assert.Equal(t, "raporlar_2025-06-15.xlsx", filepath.Base(path))
}

func TestExportStripsDirectoryFromServerFilename(t *testing.T) {
	dir := t.TempDir()
	client := &downloadClientStub{
		zipFn: func(ctx context.Context, ids []string) (*ekos.Download, error) {
			return staticDownload("../../etc/raporlar.zip", "zip-bytes"), nil
		},
	}
	e := New(client, dir, nil)

	path, err := e.ExportZip(context.Background(), []string{"r-1"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "raporlar.zip"), path)
}

func TestSecondExportRejectedWhileFirstRuns(t *testing.T) {
	dir := t.TempDir()
	release := make(chan struct{})
	started := make(chan struct{})
	client := &downloadClientStub{
		zipFn: func(ctx context.Context, ids []string) (*ekos.Download, error) {
			close(started)
			<-release
			return staticDownload("raporlar.zip", "zip-bytes"), nil
		},
	}
	e := New(client, dir, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := e.ExportZip(context.Background(), []string{"r-1"})
		assert.NoError(t, err)
	}()

	<-started
	assert.True(t, e.Requesting())
	_, err := e.ExportZip(context.Background(), []string{"r-2"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict.Code))

	close(release)
	wg.Wait()
	assert.False(t, e.Requesting())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (failingReader) Close() error             { return nil }

func TestInterruptedDownloadLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	client := &downloadClientStub{
		zipFn: func(ctx context.Context, ids []string) (*ekos.Download, error) {
			return &ekos.Download{Body: failingReader{}, Filename: "raporlar.zip"}, nil
		},
	}
	e := New(client, dir, nil)

	_, err := e.ExportZip(context.Background(), []string{"r-1"})
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "failed downloads must not leave partial files behind")
	assert.False(t, e.Requesting())
}

func TestClientErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	client := &downloadClientStub{
		zipFn: func(ctx context.Context, ids []string) (*ekos.Download, error) {
			return nil, appErrors.Clone(appErrors.ErrLimitExceeded, "en fazla 100 rapor seçilebilir")
		},
	}
	e := New(client, dir, nil)

	_, err := e.ExportZip(context.Background(), []string{"r-1"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrLimitExceeded.Code))
	assert.False(t, e.Requesting())
}
