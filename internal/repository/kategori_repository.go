package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

// KategoriRepository persists equipment categories.
type KategoriRepository struct {
	db *sqlx.DB
}

// NewKategoriRepository constructs the repository.
func NewKategoriRepository(db *sqlx.DB) *KategoriRepository {
	return &KategoriRepository{db: db}
}

// List returns all categories ordered by name.
func (r *KategoriRepository) List(ctx context.Context) ([]models.Kategori, error) {
	const query = `SELECT id, ad, alt_kategoriler, created_at FROM kategoriler ORDER BY ad ASC`
	var kategoriler []models.Kategori
	if err := r.db.SelectContext(ctx, &kategoriler, query); err != nil {
		return nil, fmt.Errorf("list kategoriler: %w", err)
	}
	return kategoriler, nil
}

// Create inserts a new category row.
func (r *KategoriRepository) Create(ctx context.Context, kategori *models.Kategori) error {
	if kategori.ID == "" {
		kategori.ID = uuid.NewString()
	}
	if kategori.CreatedAt.IsZero() {
		kategori.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO kategoriler (id, ad, alt_kategoriler, created_at)
VALUES (:id, :ad, :alt_kategoriler, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, kategori); err != nil {
		return fmt.Errorf("create kategori: %w", err)
	}
	return nil
}

// Delete removes a category.
func (r *KategoriRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM kategoriler WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete kategori: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete kategori: %w", err)
	}
	return affected > 0, nil
}
