package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ekos-sistemi/ekos-api/internal/dto"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	"github.com/ekos-sistemi/ekos-api/internal/repository"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type raporStore interface {
	List(ctx context.Context, filter models.RaporFilter) ([]models.Rapor, error)
	GetByID(ctx context.Context, id string) (*models.Rapor, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Rapor, error)
	Create(ctx context.Context, rapor *models.Rapor) error
	Update(ctx context.Context, id string, params repository.UpdateRaporParams) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	LastRaporNo(ctx context.Context, prefix string) (string, error)
}

type raporProjeResolver interface {
	GetByID(ctx context.Context, id string) (*models.Proje, error)
}

type raporMediaStore interface {
	ListByRaporIDs(ctx context.Context, raporIDs []string) ([]models.MediaDosya, error)
	DeleteByRaporIDs(ctx context.Context, raporIDs []string) error
}

type raporFileStorage interface {
	Delete(filename string) error
}

type statsInvalidator interface {
	Delete(ctx context.Context, key string) error
}

// BulkDeleteMax bounds a single batch delete request.
const BulkDeleteMax = 500

// RaporService implements the report use cases.
type RaporService struct {
	repo      raporStore
	projeler  raporProjeResolver
	media     raporMediaStore
	storage   raporFileStorage
	cache     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRaporService constructs the service.
func NewRaporService(repo raporStore, projeler raporProjeResolver, media raporMediaStore, storage raporFileStorage, cache statsInvalidator, validate *validator.Validate, logger *zap.Logger) *RaporService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RaporService{
		repo:      repo,
		projeler:  projeler,
		media:     media,
		storage:   storage,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// List returns reports matching the filter. Viewers only ever see reports
// belonging to their own company, whatever the filter says.
func (s *RaporService) List(ctx context.Context, filter models.RaporFilter, actor *models.JWTClaims) ([]models.Rapor, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleViewer && actor.FirmaAdi != "" {
		filter.Firma = actor.FirmaAdi
	}
	raporlar, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	if raporlar == nil {
		raporlar = []models.Rapor{}
	}
	return raporlar, nil
}

// Get returns a single report.
func (s *RaporService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Rapor, error) {
	rapor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rapor bulunamadı")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report")
	}
	if actor != nil && actor.Role == models.RoleViewer && actor.FirmaAdi != "" && rapor.Firma != actor.FirmaAdi {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}
	return rapor, nil
}

// Create validates the payload, allocates a report number and stores the row.
func (s *RaporService) Create(ctx context.Context, req dto.CreateRaporRequest, actor *models.JWTClaims) (*models.Rapor, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanEdit() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "rapor oluşturma yetkiniz yok")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	proje, err := s.projeler.GetByID(ctx, req.ProjeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proje bulunamadı")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch project")
	}

	sehir, ok := models.FindSehir(req.Sehir)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "geçersiz şehir")
	}

	raporNo, err := s.nextRaporNo(ctx, sehir)
	if err != nil {
		return nil, err
	}

	rapor := &models.Rapor{
		RaporNo:           raporNo,
		ProjeID:           proje.ID,
		ProjeAdi:          proje.ProjeAdi,
		Sehir:             sehir.Isim,
		SehirKodu:         sehir.Kod,
		EkipmanAdi:        req.EkipmanAdi,
		Kategori:          req.Kategori,
		AltKategori:       req.AltKategori,
		Firma:             req.Firma,
		Lokasyon:          req.Lokasyon,
		MarkaModel:        req.MarkaModel,
		SeriNo:            req.SeriNo,
		Periyot:           req.Periyot,
		GecerlilikTarihi:  req.GecerlilikTarihi,
		Aciklama:          req.Aciklama,
		Uygunluk:          req.Uygunluk,
		Durum:             models.DurumAktif,
		CreatedBy:         actor.UserID,
		CreatedByUsername: actor.Username,
	}

	if err := s.repo.Create(ctx, rapor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	s.invalidateStats(ctx)
	s.logger.Info("rapor created", zap.String("rapor_id", rapor.ID), zap.String("rapor_no", rapor.RaporNo))
	return rapor, nil
}

// Update applies a partial update and returns the new row.
func (s *RaporService) Update(ctx context.Context, id string, req dto.UpdateRaporRequest, actor *models.JWTClaims) (*models.Rapor, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanEdit() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "rapor düzenleme yetkiniz yok")
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rapor bulunamadı")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report")
	}

	params := repository.UpdateRaporParams{
		EkipmanAdi:       req.EkipmanAdi,
		Kategori:         req.Kategori,
		AltKategori:      req.AltKategori,
		Firma:            req.Firma,
		Lokasyon:         req.Lokasyon,
		MarkaModel:       req.MarkaModel,
		SeriNo:           req.SeriNo,
		Periyot:          req.Periyot,
		GecerlilikTarihi: req.GecerlilikTarihi,
		Aciklama:         req.Aciklama,
		Uygunluk:         req.Uygunluk,
	}

	if req.ProjeID != nil {
		proje, err := s.projeler.GetByID(ctx, *req.ProjeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "proje bulunamadı")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch project")
		}
		params.ProjeID = &proje.ID
		params.ProjeAdi = &proje.ProjeAdi
	}
	if req.Sehir != nil {
		sehir, ok := models.FindSehir(*req.Sehir)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "geçersiz şehir")
		}
		params.Sehir = &sehir.Isim
		params.SehirKodu = &sehir.Kod
	}

	if err := s.repo.Update(ctx, id, params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report")
	}

	s.invalidateStats(ctx)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload report")
	}
	return updated, nil
}

// ToggleDurum flips the report between Aktif and Pasif.
func (s *RaporService) ToggleDurum(ctx context.Context, id string, actor *models.JWTClaims) (*dto.DurumResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanEdit() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "rapor durumunu değiştirme yetkiniz yok")
	}

	rapor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rapor bulunamadı")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report")
	}

	yeniDurum := models.DurumPasif
	if rapor.Durum == models.DurumPasif {
		yeniDurum = models.DurumAktif
	}

	if err := s.repo.Update(ctx, id, repository.UpdateRaporParams{Durum: &yeniDurum}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}

	s.invalidateStats(ctx)
	return &dto.DurumResponse{
		Message: fmt.Sprintf("Rapor durumu %s olarak güncellendi", yeniDurum),
		Durum:   yeniDurum,
	}, nil
}

// Delete removes a report and its attachments.
func (s *RaporService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !actor.Role.CanEdit() {
		return appErrors.Clone(appErrors.ErrForbidden, "rapor silme yetkiniz yok")
	}

	if err := s.removeAttachments(ctx, []string{id}); err != nil {
		return err
	}

	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete report")
	}
	if !existed {
		return appErrors.Clone(appErrors.ErrNotFound, "rapor bulunamadı")
	}

	s.invalidateStats(ctx)
	return nil
}

// BulkDelete removes the selected reports in one all-or-nothing request.
func (s *RaporService) BulkDelete(ctx context.Context, ids []string, actor *models.JWTClaims) (*dto.BulkDeleteResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanEdit() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "rapor silme yetkiniz yok")
	}
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "en az bir rapor seçilmelidir")
	}
	if len(ids) > BulkDeleteMax {
		return nil, appErrors.Clone(appErrors.ErrLimitExceeded, fmt.Sprintf("en fazla %d rapor silinebilir", BulkDeleteMax))
	}

	if err := s.removeAttachments(ctx, ids); err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reports")
	}

	s.invalidateStats(ctx)
	s.logger.Info("raporlar bulk deleted", zap.Int64("count", deleted), zap.String("actor", actor.UserID))
	return &dto.BulkDeleteResponse{
		Message:      fmt.Sprintf("%d rapor silindi", deleted),
		DeletedCount: int(deleted),
	}, nil
}

func (s *RaporService) removeAttachments(ctx context.Context, raporIDs []string) error {
	dosyalar, err := s.media.ListByRaporIDs(ctx, raporIDs)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attachments")
	}
	for _, dosya := range dosyalar {
		if err := s.storage.Delete(dosya.DosyaYolu); err != nil {
			// Metadata cleanup proceeds even when a file is already gone.
			s.logger.Warn("failed to remove attachment file", zap.String("path", dosya.DosyaYolu), zap.Error(err))
		}
	}
	if err := s.media.DeleteByRaporIDs(ctx, raporIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attachment metadata")
	}
	return nil
}

// nextRaporNo allocates the next sequential number for the city and year,
// producing PK<year>-<code><seq> (PK2025-ANK025).
func (s *RaporService) nextRaporNo(ctx context.Context, sehir models.Sehir) (string, error) {
	prefix := fmt.Sprintf("PK%d-%s", time.Now().UTC().Year(), sehir.Kod)
	last, err := s.repo.LastRaporNo(ctx, prefix)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate report number")
	}

	next := 1
	if last != "" {
		raw := strings.TrimPrefix(last, prefix)
		if n, err := strconv.Atoi(raw); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next), nil
}

func (s *RaporService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardStatsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
