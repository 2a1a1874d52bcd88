package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

const raporColumns = `id, rapor_no, proje_id, proje_adi, sehir, sehir_kodu, ekipman_adi, kategori, alt_kategori,
firma, lokasyon, marka_model, seri_no, periyot, gecerlilik_tarihi, aciklama, uygunluk, durum,
created_by, created_by_username, created_at, updated_at`

// RaporRepository persists inspection reports.
type RaporRepository struct {
	db *sqlx.DB
}

// NewRaporRepository constructs the repository.
func NewRaporRepository(db *sqlx.DB) *RaporRepository {
	return &RaporRepository{db: db}
}

// List returns reports matching the filter, newest first. The search term
// matches rapor_no, ekipman_adi and firma case-insensitively.
func (r *RaporRepository) List(ctx context.Context, filter models.RaporFilter) ([]models.Rapor, error) {
	where := make([]string, 0, 6)
	args := make([]interface{}, 0, 8)
	argPos := 1

	add := func(clause string, value interface{}) {
		where = append(where, fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.ProjeID != "" {
		add("proje_id = $%d", filter.ProjeID)
	}
	if filter.Firma != "" {
		add("firma = $%d", filter.Firma)
	}
	if filter.Kategori != "" {
		add("kategori = $%d", filter.Kategori)
	}
	if filter.Periyot != "" {
		add("periyot = $%d", filter.Periyot)
	}
	if filter.Uygunluk != "" {
		add("uygunluk = $%d", filter.Uygunluk)
	}
	if filter.Arama != "" {
		where = append(where, fmt.Sprintf("(rapor_no ILIKE $%d OR ekipman_adi ILIKE $%d OR firma ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+filter.Arama+"%")
		argPos++
	}

	query := "SELECT " + raporColumns + " FROM raporlar"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT $%d", argPos)
	args = append(args, limit)
	argPos++
	if filter.Skip > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Skip)
	}

	var raporlar []models.Rapor
	if err := r.db.SelectContext(ctx, &raporlar, query, args...); err != nil {
		return nil, fmt.Errorf("list raporlar: %w", err)
	}
	return raporlar, nil
}

// GetByID returns a single report.
func (r *RaporRepository) GetByID(ctx context.Context, id string) (*models.Rapor, error) {
	query := "SELECT " + raporColumns + " FROM raporlar WHERE id = $1"
	var rapor models.Rapor
	if err := r.db.GetContext(ctx, &rapor, query, id); err != nil {
		return nil, fmt.Errorf("get rapor: %w", err)
	}
	return &rapor, nil
}

// ListByIDs fetches the given reports in one round trip.
func (r *RaporRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Rapor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + raporColumns + " FROM raporlar WHERE id = ANY($1)"
	var raporlar []models.Rapor
	if err := r.db.SelectContext(ctx, &raporlar, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list raporlar by ids: %w", err)
	}
	return raporlar, nil
}

// Create inserts a new report row with generated defaults.
func (r *RaporRepository) Create(ctx context.Context, rapor *models.Rapor) error {
	if rapor.ID == "" {
		rapor.ID = uuid.NewString()
	}
	if rapor.Durum == "" {
		rapor.Durum = models.DurumAktif
	}
	now := time.Now().UTC()
	if rapor.CreatedAt.IsZero() {
		rapor.CreatedAt = now
	}
	rapor.UpdatedAt = now

	const query = `INSERT INTO raporlar (id, rapor_no, proje_id, proje_adi, sehir, sehir_kodu, ekipman_adi, kategori, alt_kategori,
firma, lokasyon, marka_model, seri_no, periyot, gecerlilik_tarihi, aciklama, uygunluk, durum,
created_by, created_by_username, created_at, updated_at)
VALUES (:id, :rapor_no, :proje_id, :proje_adi, :sehir, :sehir_kodu, :ekipman_adi, :kategori, :alt_kategori,
:firma, :lokasyon, :marka_model, :seri_no, :periyot, :gecerlilik_tarihi, :aciklama, :uygunluk, :durum,
:created_by, :created_by_username, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rapor); err != nil {
		return fmt.Errorf("create rapor: %w", err)
	}
	return nil
}

// UpdateRaporParams defines the mutable fields.
type UpdateRaporParams struct {
	ProjeID          *string
	ProjeAdi         *string
	Sehir            *string
	SehirKodu        *string
	EkipmanAdi       *string
	Kategori         *string
	AltKategori      *string
	Firma            *string
	Lokasyon         *string
	MarkaModel       *string
	SeriNo           *string
	Periyot          *string
	GecerlilikTarihi *string
	Aciklama         *string
	Uygunluk         *string
	Durum            *string
}

// Update persists the provided changes for a report row.
func (r *RaporRepository) Update(ctx context.Context, id string, params UpdateRaporParams) error {
	set := make([]string, 0, 16)
	args := make([]interface{}, 0, 17)
	argPos := 1

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.ProjeID != nil {
		add("proje_id", *params.ProjeID)
	}
	if params.ProjeAdi != nil {
		add("proje_adi", *params.ProjeAdi)
	}
	if params.Sehir != nil {
		add("sehir", *params.Sehir)
	}
	if params.SehirKodu != nil {
		add("sehir_kodu", *params.SehirKodu)
	}
	if params.EkipmanAdi != nil {
		add("ekipman_adi", *params.EkipmanAdi)
	}
	if params.Kategori != nil {
		add("kategori", *params.Kategori)
	}
	if params.AltKategori != nil {
		add("alt_kategori", *params.AltKategori)
	}
	if params.Firma != nil {
		add("firma", *params.Firma)
	}
	if params.Lokasyon != nil {
		add("lokasyon", *params.Lokasyon)
	}
	if params.MarkaModel != nil {
		add("marka_model", *params.MarkaModel)
	}
	if params.SeriNo != nil {
		add("seri_no", *params.SeriNo)
	}
	if params.Periyot != nil {
		add("periyot", *params.Periyot)
	}
	if params.GecerlilikTarihi != nil {
		add("gecerlilik_tarihi", *params.GecerlilikTarihi)
	}
	if params.Aciklama != nil {
		add("aciklama", *params.Aciklama)
	}
	if params.Uygunluk != nil {
		add("uygunluk", *params.Uygunluk)
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

	query := fmt.Sprintf("UPDATE raporlar SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update rapor: %w", err)
	}
	return nil
}

// Delete removes a single report. The boolean reports whether a row existed.
func (r *RaporRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM raporlar WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete rapor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete rapor: %w", err)
	}
	return affected > 0, nil
}

// DeleteMany removes the given reports in one statement and returns the
// number of rows removed. Batch deletes are all-or-nothing per request.
func (r *RaporRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM raporlar WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete raporlar: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk delete raporlar: %w", err)
	}
	return affected, nil
}

// LastRaporNo returns the highest report number with the given prefix, or
// empty string when none exists yet. Used to allocate the next sequence.
func (r *RaporRepository) LastRaporNo(ctx context.Context, prefix string) (string, error) {
	const query = `SELECT rapor_no FROM raporlar WHERE rapor_no LIKE $1 ORDER BY rapor_no DESC LIMIT 1`
	var raporNo string
	err := r.db.GetContext(ctx, &raporNo, query, prefix+"%")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last rapor no: %w", err)
	}
	return raporNo, nil
}

// CountByDurum returns report counts grouped by status.
func (r *RaporRepository) CountByDurum(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT durum, COUNT(*) FROM raporlar GROUP BY durum")
	if err != nil {
		return nil, fmt.Errorf("count raporlar by durum: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[string]int)
	for rows.Next() {
		var durum string
		var count int
		if err := rows.Scan(&durum, &count); err != nil {
			return nil, fmt.Errorf("count raporlar by durum: %w", err)
		}
		counts[durum] = count
	}
	return counts, rows.Err()
}

// CountByUygunluk returns report counts grouped by compliance verdict.
func (r *RaporRepository) CountByUygunluk(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT COALESCE(uygunluk, ''), COUNT(*) FROM raporlar GROUP BY uygunluk")
	if err != nil {
		return nil, fmt.Errorf("count raporlar by uygunluk: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[string]int)
	for rows.Next() {
		var uygunluk string
		var count int
		if err := rows.Scan(&uygunluk, &count); err != nil {
			return nil, fmt.Errorf("count raporlar by uygunluk: %w", err)
		}
		counts[uygunluk] = count
	}
	return counts, rows.Err()
}
