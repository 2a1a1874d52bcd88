package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

type kategoriStoreStub struct {
	kategoriler []models.Kategori
	listCalls   int
	deleted     []string
}

func (s *kategoriStoreStub) List(ctx context.Context) ([]models.Kategori, error) {
	s.listCalls++
	return s.kategoriler, nil
}

func (s *kategoriStoreStub) Create(ctx context.Context, kategori *models.Kategori) error {
	s.kategoriler = append(s.kategoriler, *kategori)
	return nil
}

func (s *kategoriStoreStub) Delete(ctx context.Context, id string) (bool, error) {
	for i, k := range s.kategoriler {
		if k.ID == id {
			s.kategoriler = append(s.kategoriler[:i], s.kategoriler[i+1:]...)
			s.deleted = append(s.deleted, id)
			return true, nil
		}
	}
	return false, nil
}

// mapCache round-trips values through JSON the way the Redis cache does.
type mapCache struct {
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestKategoriListFillsAndServesCache(t *testing.T) {
	repo := &kategoriStoreStub{kategoriler: []models.Kategori{{ID: "k-1", Ad: "Kaldırma"}}}
	cache := newMapCache()
	svc := NewKategoriService(repo, cache, time.Minute, nil, nil)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "second read is served from cache")
}

func TestKategoriListWorksWithoutCache(t *testing.T) {
	repo := &kategoriStoreStub{}
	svc := NewKategoriService(repo, nil, time.Minute, nil, nil)

	kategoriler, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, kategoriler)
	assert.Empty(t, kategoriler)
}

func TestKategoriCreateInvalidatesCache(t *testing.T) {
	repo := &kategoriStoreStub{}
	cache := newMapCache()
	svc := NewKategoriService(repo, cache, time.Minute, nil, nil)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Contains(t, cache.entries, "ekos:kategoriler")

	_, err = svc.Create(context.Background(), &models.Kategori{Ad: "Basınçlı Kap"}, adminClaims())
	require.NoError(t, err)
	assert.NotContains(t, cache.entries, "ekos:kategoriler")
}

func TestKategoriCreateRequiresAdmin(t *testing.T) {
	svc := NewKategoriService(&kategoriStoreStub{}, nil, time.Minute, nil, nil)

	_, err := svc.Create(context.Background(), &models.Kategori{Ad: "Kaldırma"}, viewerClaims("Demir A.Ş."))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestKategoriCreateRequiresName(t *testing.T) {
	svc := NewKategoriService(&kategoriStoreStub{}, nil, time.Minute, nil, nil)

	_, err := svc.Create(context.Background(), &models.Kategori{}, adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestKategoriDeleteUnknownID(t *testing.T) {
	svc := NewKategoriService(&kategoriStoreStub{}, nil, time.Minute, nil, nil)

	err := svc.Delete(context.Background(), "missing", adminClaims())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}
