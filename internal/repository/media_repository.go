package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

const mediaColumns = `id, rapor_id, dosya_adi, dosya_yolu, boyut, mime_type, created_at`

// MediaRepository persists report attachment metadata.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository constructs the repository.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// ListByRapor returns the attachments of a single report.
func (r *MediaRepository) ListByRapor(ctx context.Context, raporID string) ([]models.MediaDosya, error) {
	query := "SELECT " + mediaColumns + " FROM medya_dosyalari WHERE rapor_id = $1 ORDER BY created_at ASC"
	var dosyalar []models.MediaDosya
	if err := r.db.SelectContext(ctx, &dosyalar, query, raporID); err != nil {
		return nil, fmt.Errorf("list media by rapor: %w", err)
	}
	return dosyalar, nil
}

// ListByRaporIDs returns attachments for a set of reports in one query.
func (r *MediaRepository) ListByRaporIDs(ctx context.Context, raporIDs []string) ([]models.MediaDosya, error) {
	if len(raporIDs) == 0 {
		return nil, nil
	}
	query := "SELECT " + mediaColumns + " FROM medya_dosyalari WHERE rapor_id = ANY($1) ORDER BY rapor_id, created_at ASC"
	var dosyalar []models.MediaDosya
	if err := r.db.SelectContext(ctx, &dosyalar, query, pq.Array(raporIDs)); err != nil {
		return nil, fmt.Errorf("list media by rapor ids: %w", err)
	}
	return dosyalar, nil
}

// Create inserts attachment metadata.
func (r *MediaRepository) Create(ctx context.Context, dosya *models.MediaDosya) error {
	if dosya.ID == "" {
		dosya.ID = uuid.NewString()
	}
	if dosya.CreatedAt.IsZero() {
		dosya.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO medya_dosyalari (id, rapor_id, dosya_adi, dosya_yolu, boyut, mime_type, created_at)
VALUES (:id, :rapor_id, :dosya_adi, :dosya_yolu, :boyut, :mime_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dosya); err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

// DeleteByRaporIDs removes metadata for the given reports.
func (r *MediaRepository) DeleteByRaporIDs(ctx context.Context, raporIDs []string) error {
	if len(raporIDs) == 0 {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM medya_dosyalari WHERE rapor_id = ANY($1)", pq.Array(raporIDs)); err != nil {
		return fmt.Errorf("delete media by rapor ids: %w", err)
	}
	return nil
}
