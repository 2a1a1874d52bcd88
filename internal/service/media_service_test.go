package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type mediaMetaStub struct {
	dosyalar []models.MediaDosya
	created  []*models.MediaDosya
}

func (s *mediaMetaStub) ListByRapor(ctx context.Context, raporID string) ([]models.MediaDosya, error) {
	var out []models.MediaDosya
	for _, d := range s.dosyalar {
		if d.RaporID == raporID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *mediaMetaStub) Create(ctx context.Context, dosya *models.MediaDosya) error {
	s.created = append(s.created, dosya)
	return nil
}

type mediaRaporStub struct {
	raporlar map[string]*models.Rapor
}

func (s *mediaRaporStub) GetByID(ctx context.Context, id string) (*models.Rapor, error) {
	rapor, ok := s.raporlar[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rapor, nil
}

type fileWriterStub struct {
	written map[string][]byte
}

func (s *fileWriterStub) SaveStream(filename string, r io.Reader) (string, error) {
	if s.written == nil {
		s.written = make(map[string][]byte)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.written[filename] = data
	return filename, nil
}

func newTestMediaService() (*MediaService, *mediaMetaStub, *fileWriterStub) {
	media := &mediaMetaStub{}
	raporlar := &mediaRaporStub{raporlar: map[string]*models.Rapor{
		"r-1": {ID: "r-1", RaporNo: "PK2025-ANK001", Firma: "Demir A.Ş."},
	}}
	writer := &fileWriterStub{}
	return NewMediaService(media, raporlar, writer, nil), media, writer
}

func TestMediaUploadStoresFileAndMetadata(t *testing.T) {
	svc, media, writer := newTestMediaService()

	content := []byte("jpeg-bytes")
	dosya, err := svc.Upload(context.Background(), "r-1", "vinç fotoğrafı.jpg", "image/jpeg", int64(len(content)), bytes.NewReader(content), adminClaims())
	require.NoError(t, err)

	require.Len(t, media.created, 1)
	assert.Equal(t, "r-1", dosya.RaporID)
	assert.Equal(t, "image/jpeg", dosya.MimeType)
	assert.NotContains(t, dosya.DosyaAdi, " ", "stored names are sanitized")

	require.Len(t, writer.written, 1)
	for path, data := range writer.written {
		assert.Equal(t, path, dosya.DosyaYolu)
		assert.True(t, strings.HasPrefix(path, "raporlar/r-1/"))
		assert.Equal(t, content, data)
	}
}

func TestMediaUploadRejectsViewer(t *testing.T) {
	svc, media, _ := newTestMediaService()

	_, err := svc.Upload(context.Background(), "r-1", "a.jpg", "image/jpeg", 4, strings.NewReader("data"), viewerClaims("Demir A.Ş."))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
	assert.Empty(t, media.created)
}

func TestMediaUploadUnknownRapor(t *testing.T) {
	svc, _, _ := newTestMediaService()

	_, err := svc.Upload(context.Background(), "missing", "a.jpg", "image/jpeg", 4, strings.NewReader("data"), adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}

func TestMediaUploadRejectsOversizedFile(t *testing.T) {
	svc, _, writer := newTestMediaService()

	_, err := svc.Upload(context.Background(), "r-1", "a.bin", "", MediaUploadMaxBytes+1, strings.NewReader(""), adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrLimitExceeded.Code))
	assert.Empty(t, writer.written)
}

func TestMediaUploadDefaultsMimeType(t *testing.T) {
	svc, media, _ := newTestMediaService()

	_, err := svc.Upload(context.Background(), "r-1", "a.bin", "", 4, strings.NewReader("data"), adminClaims())
	require.NoError(t, err)
	require.Len(t, media.created, 1)
	assert.Equal(t, "application/octet-stream", media.created[0].MimeType)
}

func TestMediaListViewerLimitedToOwnFirma(t *testing.T) {
	svc, media, _ := newTestMediaService()
	media.dosyalar = []models.MediaDosya{{ID: "m-1", RaporID: "r-1", DosyaAdi: "foto.jpg"}}

	dosyalar, err := svc.List(context.Background(), "r-1", viewerClaims("Demir A.Ş."))
	require.NoError(t, err)
	assert.Len(t, dosyalar, 1)

	_, err = svc.List(context.Background(), "r-1", viewerClaims("Başka Ltd."))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}
