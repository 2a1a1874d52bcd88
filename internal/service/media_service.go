package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type mediaMetadataStore interface {
	ListByRapor(ctx context.Context, raporID string) ([]models.MediaDosya, error)
	Create(ctx context.Context, dosya *models.MediaDosya) error
}

type mediaRaporResolver interface {
	GetByID(ctx context.Context, id string) (*models.Rapor, error)
}

type mediaFileWriter interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// MediaUploadMaxBytes bounds a single attachment upload.
const MediaUploadMaxBytes = 25 << 20

// MediaService manages report attachments: the physical file on disk and
// the metadata row the ZIP export and cascade delete work from.
type MediaService struct {
	media    mediaMetadataStore
	raporlar mediaRaporResolver
	storage  mediaFileWriter
	logger   *zap.Logger
}

// NewMediaService constructs the service.
func NewMediaService(media mediaMetadataStore, raporlar mediaRaporResolver, storage mediaFileWriter, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{media: media, raporlar: raporlar, storage: storage, logger: logger}
}

// List returns the attachments of a report. Viewers only reach reports of
// their own company.
func (s *MediaService) List(ctx context.Context, raporID string, actor *models.JWTClaims) ([]models.MediaDosya, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	rapor, err := s.resolveRapor(ctx, raporID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleViewer && actor.FirmaAdi != "" && rapor.Firma != actor.FirmaAdi {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	dosyalar, err := s.media.ListByRapor(ctx, raporID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attachments")
	}
	if dosyalar == nil {
		dosyalar = []models.MediaDosya{}
	}
	return dosyalar, nil
}

// Upload stores the file under the report's media directory and records its
// metadata. The stored path carries a fresh id so uploads never collide.
func (s *MediaService) Upload(ctx context.Context, raporID, filename, mimeType string, size int64, r io.Reader, actor *models.JWTClaims) (*models.MediaDosya, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanEdit() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "dosya yükleme yetkiniz yok")
	}
	if size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "boş dosya yüklenemez")
	}
	if size > MediaUploadMaxBytes {
		return nil, appErrors.Clone(appErrors.ErrLimitExceeded, fmt.Sprintf("dosya boyutu %d MB'ı aşamaz", MediaUploadMaxBytes>>20))
	}

	rapor, err := s.resolveRapor(ctx, raporID)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(filepath.Base(filename))
	stored := filepath.Join("raporlar", rapor.ID, uuid.NewString()+"_"+name)
	if _, err := s.storage.SaveStream(stored, io.LimitReader(r, MediaUploadMaxBytes)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
	}

	dosya := &models.MediaDosya{
		RaporID:   rapor.ID,
		DosyaAdi:  name,
		DosyaYolu: stored,
		Boyut:     size,
		MimeType:  normalizeMimeType(mimeType),
	}
	if err := s.media.Create(ctx, dosya); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attachment")
	}

	s.logger.Info("attachment uploaded",
		zap.String("rapor_id", rapor.ID),
		zap.String("dosya", name),
		zap.Int64("boyut", size))
	return dosya, nil
}

func (s *MediaService) resolveRapor(ctx context.Context, raporID string) (*models.Rapor, error) {
	rapor, err := s.raporlar.GetByID(ctx, raporID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rapor bulunamadı")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report")
	}
	return rapor, nil
}

func normalizeMimeType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}
