package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ekos-sistemi/ekos-api/internal/dto"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	"github.com/ekos-sistemi/ekos-api/internal/repository"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type projeStore interface {
	List(ctx context.Context) ([]models.Proje, error)
	GetByID(ctx context.Context, id string) (*models.Proje, error)
	Create(ctx context.Context, proje *models.Proje) error
	Update(ctx context.Context, id string, params repository.UpdateProjeParams) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ProjeService implements project CRUD.
type ProjeService struct {
	repo      projeStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjeService constructs the service.
func NewProjeService(repo projeStore, validate *validator.Validate, logger *zap.Logger) *ProjeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProjeService{repo: repo, validator: validate, logger: logger}
}

// List returns all projects.
func (s *ProjeService) List(ctx context.Context) ([]models.Proje, error) {
	projeler, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	if projeler == nil {
		projeler = []models.Proje{}
	}
	return projeler, nil
}

// Create stores a new project.
func (s *ProjeService) Create(ctx context.Context, req dto.CreateProjeRequest, actor *models.JWTClaims) (*models.Proje, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanEdit() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "proje oluşturma yetkiniz yok")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	if _, ok := models.FindSehir(req.Sehir); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "geçersiz şehir")
	}

	proje := &models.Proje{
		ProjeAdi: req.ProjeAdi,
		Firma:    req.Firma,
		Sehir:    req.Sehir,
	}
	if err := s.repo.Create(ctx, proje); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store project")
	}
	return proje, nil
}

// Update applies a partial update and returns the new row.
func (s *ProjeService) Update(ctx context.Context, id string, req dto.UpdateProjeRequest, actor *models.JWTClaims) (*models.Proje, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanEdit() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "proje düzenleme yetkiniz yok")
	}
	if req.Sehir != nil {
		if _, ok := models.FindSehir(*req.Sehir); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "geçersiz şehir")
		}
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proje bulunamadı")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch project")
	}

	params := repository.UpdateProjeParams{
		ProjeAdi: req.ProjeAdi,
		Firma:    req.Firma,
		Sehir:    req.Sehir,
		Durum:    req.Durum,
	}
	if err := s.repo.Update(ctx, id, params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload project")
	}
	return updated, nil
}

// Delete removes a project.
func (s *ProjeService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "proje silme yetkiniz yok")
	}

	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete project")
	}
	if !existed {
		return appErrors.Clone(appErrors.ErrNotFound, "proje bulunamadı")
	}
	return nil
}
