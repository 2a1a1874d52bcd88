package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

const projeColumns = `id, proje_adi, firma, sehir, durum, created_at, updated_at`

// ProjeRepository persists projects.
type ProjeRepository struct {
	db *sqlx.DB
}

// NewProjeRepository constructs the repository.
func NewProjeRepository(db *sqlx.DB) *ProjeRepository {
	return &ProjeRepository{db: db}
}

// List returns all projects, newest first.
func (r *ProjeRepository) List(ctx context.Context) ([]models.Proje, error) {
	query := "SELECT " + projeColumns + " FROM projeler ORDER BY created_at DESC"
	var projeler []models.Proje
	if err := r.db.SelectContext(ctx, &projeler, query); err != nil {
		return nil, fmt.Errorf("list projeler: %w", err)
	}
	return projeler, nil
}

// GetByID returns a single project.
func (r *ProjeRepository) GetByID(ctx context.Context, id string) (*models.Proje, error) {
	query := "SELECT " + projeColumns + " FROM projeler WHERE id = $1"
	var proje models.Proje
	if err := r.db.GetContext(ctx, &proje, query, id); err != nil {
		return nil, fmt.Errorf("get proje: %w", err)
	}
	return &proje, nil
}

// Create inserts a new project row.
func (r *ProjeRepository) Create(ctx context.Context, proje *models.Proje) error {
	if proje.ID == "" {
		proje.ID = uuid.NewString()
	}
	if proje.Durum == "" {
		proje.Durum = models.DurumAktif
	}
	now := time.Now().UTC()
	if proje.CreatedAt.IsZero() {
		proje.CreatedAt = now
	}
	proje.UpdatedAt = now

	const query = `INSERT INTO projeler (id, proje_adi, firma, sehir, durum, created_at, updated_at)
VALUES (:id, :proje_adi, :firma, :sehir, :durum, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, proje); err != nil {
		return fmt.Errorf("create proje: %w", err)
	}
	return nil
}

// UpdateProjeParams defines the mutable fields.
type UpdateProjeParams struct {
	ProjeAdi *string
	Firma    *string
	Sehir    *string
	Durum    *string
}

// Update persists the provided changes for a project row.
func (r *ProjeRepository) Update(ctx context.Context, id string, params UpdateProjeParams) error {
	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	argPos := 1

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.ProjeAdi != nil {
		add("proje_adi", *params.ProjeAdi)
	}
	if params.Firma != nil {
		add("firma", *params.Firma)
	}
	if params.Sehir != nil {
		add("sehir", *params.Sehir)
	}
	if params.Durum != nil {
		add("durum", *params.Durum)
	}

	if len(set) == 0 {
		return nil
	}

	set = append(set, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	query := fmt.Sprintf("UPDATE projeler SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update proje: %w", err)
	}
	return nil
}

// Delete removes a project. The boolean reports whether a row existed.
func (r *ProjeRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projeler WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete proje: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete proje: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of projects.
func (r *ProjeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM projeler"); err != nil {
		return 0, fmt.Errorf("count projeler: %w", err)
	}
	return count, nil
}
