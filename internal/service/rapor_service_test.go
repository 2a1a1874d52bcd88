package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekos-sistemi/ekos-api/internal/dto"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	"github.com/ekos-sistemi/ekos-api/internal/repository"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type raporStoreStub struct {
	raporlar   map[string]models.Rapor
	lastNo     string
	listFilter models.RaporFilter
	deletedIDs []string
	created    *models.Rapor
	updates    map[string]repository.UpdateRaporParams
}

func newRaporStoreStub(raporlar ...models.Rapor) *raporStoreStub {
	stub := &raporStoreStub{
		raporlar: make(map[string]models.Rapor),
		updates:  make(map[string]repository.UpdateRaporParams),
	}
	for _, r := range raporlar {
		stub.raporlar[r.ID] = r
	}
	return stub
}

func (s *raporStoreStub) List(ctx context.Context, filter models.RaporFilter) ([]models.Rapor, error) {
	s.listFilter = filter
	out := make([]models.Rapor, 0, len(s.raporlar))
	for _, r := range s.raporlar {
		if filter.Firma != "" && r.Firma != filter.Firma {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *raporStoreStub) GetByID(ctx context.Context, id string) (*models.Rapor, error) {
	if r, ok := s.raporlar[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (s *raporStoreStub) ListByIDs(ctx context.Context, ids []string) ([]models.Rapor, error) {
	out := make([]models.Rapor, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.raporlar[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *raporStoreStub) Create(ctx context.Context, rapor *models.Rapor) error {
	if rapor.ID == "" {
		rapor.ID = fmt.Sprintf("r-%d", len(s.raporlar)+1)
	}
	s.raporlar[rapor.ID] = *rapor
	s.created = rapor
	return nil
}

func (s *raporStoreStub) Update(ctx context.Context, id string, params repository.UpdateRaporParams) error {
	s.updates[id] = params
	r := s.raporlar[id]
	if params.Durum != nil {
		r.Durum = *params.Durum
	}
	if params.EkipmanAdi != nil {
		r.EkipmanAdi = *params.EkipmanAdi
	}
	s.raporlar[id] = r
	return nil
}

func (s *raporStoreStub) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.raporlar[id]; !ok {
		return false, nil
	}
	delete(s.raporlar, id)
	s.deletedIDs = append(s.deletedIDs, id)
	return true, nil
}

func (s *raporStoreStub) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := s.raporlar[id]; ok {
			delete(s.raporlar, id)
			s.deletedIDs = append(s.deletedIDs, id)
			n++
		}
	}
	return n, nil
}

func (s *raporStoreStub) LastRaporNo(ctx context.Context, prefix string) (string, error) {
	if strings.HasPrefix(s.lastNo, prefix) {
		return s.lastNo, nil
	}
	return "", nil
}

type projeResolverStub struct {
	projeler map[string]models.Proje
}

func (s *projeResolverStub) GetByID(ctx context.Context, id string) (*models.Proje, error) {
	if p, ok := s.projeler[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

type mediaStoreStub struct {
	dosyalar []models.MediaDosya
	deleted  [][]string
}

func (s *mediaStoreStub) ListByRaporIDs(ctx context.Context, raporIDs []string) ([]models.MediaDosya, error) {
	out := []models.MediaDosya{}
	for _, d := range s.dosyalar {
		for _, id := range raporIDs {
			if d.RaporID == id {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func (s *mediaStoreStub) DeleteByRaporIDs(ctx context.Context, raporIDs []string) error {
	s.deleted = append(s.deleted, raporIDs)
	return nil
}

type fileStorageStub struct {
	removed []string
}

func (s *fileStorageStub) Delete(filename string) error {
	s.removed = append(s.removed, filename)
	return nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-admin", Username: "admin", Role: models.RoleAdmin}
}

func viewerClaims(firma string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-viewer", Username: "viewer", Role: models.RoleViewer, FirmaAdi: firma}
}

func newTestRaporService(store *raporStoreStub, projeler *projeResolverStub) (*RaporService, *mediaStoreStub, *fileStorageStub) {
	if projeler == nil {
		projeler = &projeResolverStub{projeler: map[string]models.Proje{}}
	}
	media := &mediaStoreStub{}
	storage := &fileStorageStub{}
	return NewRaporService(store, projeler, media, storage, nil, nil, nil), media, storage
}

func TestRaporServiceListPinsViewerToOwnFirma(t *testing.T) {
	store := newRaporStoreStub(
		models.Rapor{ID: "r-1", Firma: "Firma A"},
		models.Rapor{ID: "r-2", Firma: "Firma B"},
	)
	svc, _, _ := newTestRaporService(store, nil)

	raporlar, err := svc.List(context.Background(), models.RaporFilter{Firma: "Firma B"}, viewerClaims("Firma A"))
	require.NoError(t, err)
	require.Len(t, raporlar, 1)
	assert.Equal(t, "Firma A", raporlar[0].Firma)
	assert.Equal(t, "Firma A", store.listFilter.Firma)
}

func TestRaporServiceGetViewerForbiddenOnOtherFirma(t *testing.T) {
	store := newRaporStoreStub(models.Rapor{ID: "r-1", Firma: "Firma B"})
	svc, _, _ := newTestRaporService(store, nil)

	_, err := svc.Get(context.Background(), "r-1", viewerClaims("Firma A"))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestRaporServiceCreateAllocatesSequentialNumber(t *testing.T) {
	store := newRaporStoreStub()
	store.lastNo = fmt.Sprintf("PK%d-ANK024", time.Now().UTC().Year())
	projeler := &projeResolverStub{projeler: map[string]models.Proje{
		"p-1": {ID: "p-1", ProjeAdi: "Santral Bakım", Firma: "Firma A", Sehir: "Ankara"},
	}}
	svc, _, _ := newTestRaporService(store, projeler)

	rapor, err := svc.Create(context.Background(), dto.CreateRaporRequest{
		ProjeID:    "p-1",
		Sehir:      "Ankara",
		EkipmanAdi: "Vinç",
		Kategori:   "Kaldırma",
		Firma:      "Firma A",
	}, adminClaims())
	require.NoError(t, err)

	expected := fmt.Sprintf("PK%d-ANK025", time.Now().UTC().Year())
	assert.Equal(t, expected, rapor.RaporNo)
	assert.Equal(t, "Santral Bakım", rapor.ProjeAdi)
	assert.Equal(t, "ANK", rapor.SehirKodu)
	assert.Equal(t, models.DurumAktif, rapor.Durum)
}

func TestRaporServiceCreateFirstNumberOfCity(t *testing.T) {
	store := newRaporStoreStub()
	projeler := &projeResolverStub{projeler: map[string]models.Proje{
		"p-1": {ID: "p-1", ProjeAdi: "Liman", Firma: "Firma A", Sehir: "İzmir"},
	}}
	svc, _, _ := newTestRaporService(store, projeler)

	rapor, err := svc.Create(context.Background(), dto.CreateRaporRequest{
		ProjeID:    "p-1",
		Sehir:      "İzmir",
		EkipmanAdi: "Forklift",
		Kategori:   "Kaldırma",
		Firma:      "Firma A",
	}, adminClaims())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rapor.RaporNo, "001"), "got %s", rapor.RaporNo)
}

func TestRaporServiceCreateRejectsViewer(t *testing.T) {
	svc, _, _ := newTestRaporService(newRaporStoreStub(), nil)

	_, err := svc.Create(context.Background(), dto.CreateRaporRequest{}, viewerClaims("Firma A"))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestRaporServiceCreateUnknownCity(t *testing.T) {
	projeler := &projeResolverStub{projeler: map[string]models.Proje{
		"p-1": {ID: "p-1", ProjeAdi: "Proje", Firma: "Firma A", Sehir: "Ankara"},
	}}
	svc, _, _ := newTestRaporService(newRaporStoreStub(), projeler)

	_, err := svc.Create(context.Background(), dto.CreateRaporRequest{
		ProjeID:    "p-1",
		Sehir:      "Atlantis",
		EkipmanAdi: "Vinç",
		Kategori:   "Kaldırma",
		Firma:      "Firma A",
	}, adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestRaporServiceToggleDurum(t *testing.T) {
	store := newRaporStoreStub(models.Rapor{ID: "r-1", Durum: models.DurumAktif})
	svc, _, _ := newTestRaporService(store, nil)

	res, err := svc.ToggleDurum(context.Background(), "r-1", adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.DurumPasif, res.Durum)
	assert.Equal(t, "Rapor durumu Pasif olarak güncellendi", res.Message)

	res, err = svc.ToggleDurum(context.Background(), "r-1", adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.DurumAktif, res.Durum)
}

func TestRaporServiceDeleteRemovesAttachments(t *testing.T) {
	store := newRaporStoreStub(models.Rapor{ID: "r-1"})
	svc, media, storage := newTestRaporService(store, nil)
	media.dosyalar = []models.MediaDosya{
		{ID: "m-1", RaporID: "r-1", DosyaYolu: "r-1/foto.jpg"},
	}

	require.NoError(t, svc.Delete(context.Background(), "r-1", adminClaims()))
	assert.Equal(t, []string{"r-1/foto.jpg"}, storage.removed)
	require.Len(t, media.deleted, 1)
	assert.Equal(t, []string{"r-1"}, media.deleted[0])
	assert.Empty(t, store.raporlar)
}

func TestRaporServiceBulkDeleteEmptySelection(t *testing.T) {
	svc, _, _ := newTestRaporService(newRaporStoreStub(), nil)

	_, err := svc.BulkDelete(context.Background(), nil, adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestRaporServiceBulkDeleteOverLimit(t *testing.T) {
	svc, _, _ := newTestRaporService(newRaporStoreStub(), nil)

	ids := make([]string, BulkDeleteMax+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("r-%d", i)
	}
	_, err := svc.BulkDelete(context.Background(), ids, adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrLimitExceeded.Code))
}

func TestRaporServiceBulkDelete(t *testing.T) {
	store := newRaporStoreStub(
		models.Rapor{ID: "r-1"},
		models.Rapor{ID: "r-2"},
		models.Rapor{ID: "r-3"},
	)
	svc, _, _ := newTestRaporService(store, nil)

	res, err := svc.BulkDelete(context.Background(), []string{"r-1", "r-3"}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, 2, res.DeletedCount)
	assert.Equal(t, "2 rapor silindi", res.Message)
	assert.Len(t, store.raporlar, 1)
}
