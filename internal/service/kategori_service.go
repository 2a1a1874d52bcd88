package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

const kategorilerCacheKey = "ekos:kategoriler"

type kategoriStore interface {
	List(ctx context.Context) ([]models.Kategori, error)
	Create(ctx context.Context, kategori *models.Kategori) error
	Delete(ctx context.Context, id string) (bool, error)
}

type kategoriCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// KategoriService serves the category list with a Redis-backed cache.
type KategoriService struct {
	repo      kategoriStore
	cache     kategoriCache
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewKategoriService constructs the service.
func NewKategoriService(repo kategoriStore, cache kategoriCache, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *KategoriService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &KategoriService{repo: repo, cache: cache, ttl: ttl, validator: validate, logger: logger}
}

// List returns all categories, from cache when possible.
func (s *KategoriService) List(ctx context.Context) ([]models.Kategori, error) {
	if s.cache != nil {
		var cached []models.Kategori
		if err := s.cache.Get(ctx, kategorilerCacheKey, &cached); err == nil {
			return cached, nil
		} else if !appErrors.HasCode(err, appErrors.ErrCacheMiss.Code) {
			s.logger.Warn("kategori cache read failed", zap.Error(err))
		}
	}

	kategoriler, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	if kategoriler == nil {
		kategoriler = []models.Kategori{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, kategorilerCacheKey, kategoriler, s.ttl); err != nil {
			s.logger.Warn("kategori cache write failed", zap.Error(err))
		}
	}
	return kategoriler, nil
}

// Create stores a new category. Admin only.
func (s *KategoriService) Create(ctx context.Context, kategori *models.Kategori, actor *models.JWTClaims) (*models.Kategori, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "kategori oluşturma yetkiniz yok")
	}
	if kategori.Ad == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kategori adı gereklidir")
	}

	if err := s.repo.Create(ctx, kategori); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store category")
	}
	s.invalidate(ctx)
	return kategori, nil
}

// Delete removes a category. Admin only.
func (s *KategoriService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "kategori silme yetkiniz yok")
	}

	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}
	if !existed {
		return appErrors.Clone(appErrors.ErrNotFound, "kategori bulunamadı")
	}
	s.invalidate(ctx)
	return nil
}

func (s *KategoriService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, kategorilerCacheKey); err != nil {
		s.logger.Warn("kategori cache invalidation failed", zap.Error(err))
	}
}
