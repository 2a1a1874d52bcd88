package listview

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

func sampleRapor(id string, created time.Time) models.Rapor {
	return models.Rapor{
		ID:         id,
		RaporNo:    "PK2025-ANK" + id,
		EkipmanAdi: "Vinç " + id,
		Kategori:   "Kaldırma",
		Firma:      "Demir A.Ş.",
		Periyot:    strPtr("Yıllık"),
		Uygunluk:   strPtr("Uygun"),
		Durum:      models.DurumAktif,
		CreatedAt:  created,
	}
}

func sampleRecords(n int) []models.Rapor {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Rapor, n)
	for i := range out {
		out[i] = sampleRapor(fmt.Sprintf("%03d", i+1), base.Add(time.Duration(i)*time.Hour))
	}
	return out
}

func TestDerivedViewWithoutFiltersIsIdentity(t *testing.T) {
	c := NewController(50, nil)
	c.SetRecords(sampleRecords(5))

	view := c.DerivedView()
	assert.Equal(t, 5, view.TotalFiltered)
	assert.Equal(t, 1, view.TotalPages)
	assert.Len(t, view.Records, 5)
}

func TestDerivedViewPagesPartitionTheFilteredSet(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(sampleRecords(45))

	seen := map[string]int{}
	view := c.DerivedView()
	require.Equal(t, 3, view.TotalPages)
	for page := 1; page <= view.TotalPages; page++ {
		c.SetPage(page)
		for _, r := range c.DerivedView().Records {
			seen[r.ID]++
		}
	}
	assert.Len(t, seen, 45)
	for id, count := range seen {
		assert.Equal(t, 1, count, "record %s must appear on exactly one page", id)
	}
}

func TestDerivedViewSortsNewestFirstByDefault(t *testing.T) {
	c := NewController(20, nil)
	records := sampleRecords(3)
	c.SetRecords(records)

	view := c.DerivedView()
	require.Len(t, view.Records, 3)
	assert.Equal(t, "003", view.Records[0].ID)
	assert.Equal(t, "001", view.Records[2].ID)

	c.SetSortOrder(SortOldest)
	view = c.DerivedView()
	assert.Equal(t, "001", view.Records[0].ID)
}

func TestDerivedViewMissingTimestampSortsOldest(t *testing.T) {
	c := NewController(20, nil)
	records := sampleRecords(2)
	records = append(records, sampleRapor("999", time.Time{}))
	c.SetRecords(records)

	view := c.DerivedView()
	assert.Equal(t, "999", view.Records[len(view.Records)-1].ID)

	c.SetSortOrder(SortOldest)
	view = c.DerivedView()
	assert.Equal(t, "999", view.Records[0].ID)
}

func TestFilterMatchesExactDimension(t *testing.T) {
	c := NewController(20, nil)
	records := sampleRecords(3)
	records[1].Kategori = "Basınçlı Kap"
	c.SetRecords(records)

	c.SetFilter(FilterKategori, "Basınçlı Kap")
	view := c.DerivedView()
	require.Equal(t, 1, view.TotalFiltered)
	assert.Equal(t, "002", view.Records[0].ID)

	c.ClearFilters()
	assert.Equal(t, 3, c.DerivedView().TotalFiltered)
}

func TestFilterChangeResetsPage(t *testing.T) {
	var refetched []Filters
	c := NewController(20, func(f Filters) { refetched = append(refetched, f) })
	c.SetRecords(sampleRecords(45))
	c.SetPage(3)

	c.SetFilter(FilterPeriyot, "Yıllık")
	assert.Equal(t, 1, c.Page())
	require.Len(t, refetched, 1)
	assert.Equal(t, "Yıllık", refetched[0].Periyot)
}

func TestSearchResetsPageAndMatchesCaseInsensitively(t *testing.T) {
	c := NewController(20, nil)
	records := sampleRecords(45)
	records[30].EkipmanAdi = "Mobil Vinç"
	records[30].Firma = "Yılmaz Ltd."
	c.SetRecords(records)
	c.SetPage(2)

	c.SetSearchTerm("yılmaz")
	assert.Equal(t, 1, c.Page())
	view := c.DerivedView()
	require.Equal(t, 1, view.TotalFiltered)
	assert.Equal(t, "031", view.Records[0].ID)
}

func TestSearchCoversSerialNumber(t *testing.T) {
	c := NewController(20, nil)
	records := sampleRecords(3)
	records[2].SeriNo = strPtr("SN-774411")
	c.SetRecords(records)

	c.SetSearchTerm("7744")
	assert.Equal(t, 1, c.DerivedView().TotalFiltered)
}

func TestSetPageClampsIntoRange(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(sampleRecords(45))

	c.SetPage(99)
	assert.Equal(t, 3, c.Page())
	c.SetPage(0)
	assert.Equal(t, 1, c.Page())
	c.SetPage(-5)
	assert.Equal(t, 1, c.Page())
}

func TestEmptyResultStillHasOnePage(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(nil)

	view := c.DerivedView()
	assert.Equal(t, 0, view.TotalFiltered)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, 1, view.Page)
	assert.Empty(t, view.Records)
}

func TestSetRecordsClampsStalePage(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(sampleRecords(45))
	c.SetPage(3)

	c.SetRecords(sampleRecords(5))
	assert.Equal(t, 1, c.Page())
}

func TestSelectionToggleAndClear(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(sampleRecords(3))
	sel := c.Selection()

	sel.ToggleOne("001")
	sel.ToggleOne("002")
	assert.Equal(t, 2, sel.Count())
	assert.True(t, sel.Has("001"))

	sel.ToggleOne("001")
	assert.False(t, sel.Has("001"))

	sel.Clear()
	assert.Zero(t, sel.Count())
}

func TestSelectAllCoversEveryFilteredPage(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(sampleRecords(45))

	sel := c.Selection()
	sel.SelectAll(c.FilteredIDs())
	assert.Equal(t, 45, sel.Count(), "select-all spans all pages, not just the visible one")
}

func TestSelectAllRespectsActiveFilter(t *testing.T) {
	c := NewController(20, nil)
	records := sampleRecords(5)
	records[0].Kategori = "Basınçlı Kap"
	records[3].Kategori = "Basınçlı Kap"
	c.SetRecords(records)

	c.SetFilter(FilterKategori, "Basınçlı Kap")
	sel := c.Selection()
	sel.SelectAll(c.FilteredIDs())

	assert.Equal(t, []string{"001", "004"}, sel.IDs())
}

func TestSetRecordsPrunesVanishedSelection(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(sampleRecords(3))
	sel := c.Selection()
	sel.SelectAll([]string{"001", "002", "003"})

	c.SetRecords(sampleRecords(2))
	assert.Equal(t, []string{"001", "002"}, sel.IDs())
}

func TestToggleDurumOptimisticKeepsStateOnSuccess(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(sampleRecords(1))

	err := c.ToggleDurumOptimistic("001", func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, models.DurumPasif, c.Records()[0].Durum)
}

func TestToggleDurumOptimisticRollsBackOnFailure(t *testing.T) {
	c := NewController(20, nil)
	c.SetRecords(sampleRecords(1))

	var seenDuringRequest string
	err := c.ToggleDurumOptimistic("001", func() error {
		seenDuringRequest = c.Records()[0].Durum
		return appErrors.ErrInternal
	})
	require.Error(t, err)
	assert.Equal(t, models.DurumPasif, seenDuringRequest, "the flip is visible while the request is in flight")
	assert.Equal(t, models.DurumAktif, c.Records()[0].Durum, "failure restores the previous durum")
}
