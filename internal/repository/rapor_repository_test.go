package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

func newRaporRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func raporRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "rapor_no", "proje_id", "proje_adi", "sehir", "sehir_kodu", "ekipman_adi", "kategori", "alt_kategori",
		"firma", "lokasyon", "marka_model", "seri_no", "periyot", "gecerlilik_tarihi", "aciklama", "uygunluk", "durum",
		"created_by", "created_by_username", "created_at", "updated_at",
	})
}

func TestRaporRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	rows := raporRows().AddRow(
		"r-1", "PK2025-ANK001", "p-1", "Proje A", "Ankara", "ANK", "Vinç", "Kaldırma", nil,
		"Firma A", nil, nil, nil, "6 Aylık", nil, nil, "Uygun", "Aktif",
		"u-1", "inspector", time.Now(), time.Now(),
	)

	mock.ExpectQuery("SELECT (.+) FROM raporlar WHERE kategori").
		WithArgs("Kaldırma", "%vinç%", 500).
		WillReturnRows(rows)

	result, err := repo.List(context.Background(), models.RaporFilter{Kategori: "Kaldırma", Arama: "vinç"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "PK2025-ANK001", result[0].RaporNo)
}

func TestRaporRepositoryListPaginates(t *testing.T) {
	db, mock, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM raporlar ORDER BY created_at DESC LIMIT").
		WithArgs(20, 40).
		WillReturnRows(raporRows())

	result, err := repo.List(context.Background(), models.RaporFilter{Limit: 20, Skip: 40})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestRaporRepositoryLastRaporNo(t *testing.T) {
	db, mock, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	mock.ExpectQuery("SELECT rapor_no FROM raporlar WHERE rapor_no LIKE").
		WithArgs("PK2025-ANK%").
		WillReturnRows(sqlmock.NewRows([]string{"rapor_no"}).AddRow("PK2025-ANK024"))

	last, err := repo.LastRaporNo(context.Background(), "PK2025-ANK")
	require.NoError(t, err)
	assert.Equal(t, "PK2025-ANK024", last)
}

func TestRaporRepositoryLastRaporNoEmpty(t *testing.T) {
	db, mock, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	mock.ExpectQuery("SELECT rapor_no FROM raporlar WHERE rapor_no LIKE").
		WithArgs("PK2025-IST%").
		WillReturnRows(sqlmock.NewRows([]string{"rapor_no"}))

	last, err := repo.LastRaporNo(context.Background(), "PK2025-IST")
	require.NoError(t, err)
	assert.Empty(t, last)
}

func TestRaporRepositoryDeleteMany(t *testing.T) {
	db, mock, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	mock.ExpectExec("DELETE FROM raporlar WHERE id = ANY").
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.DeleteMany(context.Background(), []string{"r-1", "r-2", "r-3"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)
}

func TestRaporRepositoryDeleteManyEmpty(t *testing.T) {
	db, _, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	affected, err := repo.DeleteMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestRaporRepositoryUpdateBuildsPartialSet(t *testing.T) {
	db, mock, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	mock.ExpectExec("UPDATE raporlar SET ekipman_adi").
		WithArgs("Forklift", "Pasif", sqlmock.AnyArg(), "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ekipman := "Forklift"
	durum := models.DurumPasif
	err := repo.Update(context.Background(), "r-1", UpdateRaporParams{EkipmanAdi: &ekipman, Durum: &durum})
	require.NoError(t, err)
}

func TestRaporRepositoryUpdateNoFields(t *testing.T) {
	db, _, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	require.NoError(t, repo.Update(context.Background(), "r-1", UpdateRaporParams{}))
}

func TestRaporRepositoryCountByDurum(t *testing.T) {
	db, mock, cleanup := newRaporRepoMock(t)
	defer cleanup()

	repo := NewRaporRepository(db)
	mock.ExpectQuery("SELECT durum, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"durum", "count"}).
			AddRow("Aktif", 7).
			AddRow("Pasif", 2))

	counts, err := repo.CountByDurum(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, counts[models.DurumAktif])
	assert.Equal(t, 2, counts[models.DurumPasif])
}
