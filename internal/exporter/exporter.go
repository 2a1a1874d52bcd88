// Package exporter drives file exports for the CLI: it requests the archive
// or workbook, streams it to disk and reports the final path. A single
// export may be in flight at a time.
package exporter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ekos-sistemi/ekos-api/internal/ekos"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

// Format selects the export kind.
type Format string

const (
	FormatExcel Format = "excel"
	FormatZip   Format = "zip"
)

// ErrExportInProgress rejects a second trigger while one is running.
var ErrExportInProgress = appErrors.Clone(appErrors.ErrConflict, "bir dışa aktarma zaten devam ediyor")

type downloadClient interface {
	ZipExport(ctx context.Context, ids []string) (*ekos.Download, error)
	ExcelExport(ctx context.Context, filter models.RaporFilter) (*ekos.Download, error)
}

// Exporter streams export downloads into the download directory.
type Exporter struct {
	client      downloadClient
	downloadDir string
	logger      *zap.Logger
	now         func() time.Time

	mu         sync.Mutex
	requesting bool
}

// New constructs an exporter writing into downloadDir.
func New(client downloadClient, downloadDir string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		client:      client,
		downloadDir: downloadDir,
		logger:      logger,
		now:         func() time.Time { return time.Now() },
	}
}

// Requesting reports whether an export is currently in flight.
func (e *Exporter) Requesting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requesting
}

func (e *Exporter) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.requesting {
		return ErrExportInProgress
	}
	e.requesting = true
	return nil
}

func (e *Exporter) finish() {
	e.mu.Lock()
	e.requesting = false
	e.mu.Unlock()
}

// ExportZip bundles the selected reports into a ZIP in the download
// directory and returns the written path.
func (e *Exporter) ExportZip(ctx context.Context, ids []string) (string, error) {
	if err := e.begin(); err != nil {
		return "", err
	}
	defer e.finish()

	download, err := e.client.ZipExport(ctx, ids)
	if err != nil {
		return "", err
	}
	return e.save(download, "zip")
}

// ExportExcel writes the filtered report list as a workbook and returns the
// written path.
func (e *Exporter) ExportExcel(ctx context.Context, filter models.RaporFilter) (string, error) {
	if err := e.begin(); err != nil {
		return "", err
	}
	defer e.finish()

	download, err := e.client.ExcelExport(ctx, filter)
	if err != nil {
		return "", err
	}
	return e.save(download, "excel")
}

// save streams the body to a temp file and renames it into place. The temp
// file is removed on every failure path.
func (e *Exporter) save(download *ekos.Download, format string) (path string, err error) {
	defer download.Body.Close() //nolint:errcheck

	if err := os.MkdirAll(e.downloadDir, 0o755); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create download directory")
	}

	filename := download.Filename
	if filename == "" {
		filename = ekos.FallbackFilename("raporlar", format, e.now())
	}
	filename = filepath.Base(filename)

	tmp, err := os.CreateTemp(e.downloadDir, ".ekos-export-*")
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()           //nolint:errcheck
			os.Remove(tmp.Name()) //nolint:errcheck
		}
	}()

	written, err := io.Copy(tmp, download.Body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "download interrupted")
	}
	if err = tmp.Close(); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalise download")
	}

	target := filepath.Join(e.downloadDir, filename)
	if err = os.Rename(tmp.Name(), target); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move download into place")
	}

	e.logger.Info("export saved", zap.String("path", target), zap.Int64("bytes", written))
	return target, nil
}
