// Package listview holds the client-side list state for the report screen:
// filtering, search, sorting, pagination and bulk selection. Everything in
// DerivedView is a pure projection of the stored records, so the rendering
// layer never needs its own bookkeeping.
package listview

import (
	"sort"
	"strings"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

// SortOrder decides the created_at ordering of the derived view.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// FilterDim names one of the filter dimensions.
type FilterDim string

const (
	FilterKategori FilterDim = "kategori"
	FilterPeriyot  FilterDim = "periyot"
	FilterUygunluk FilterDim = "uygunluk"
	FilterFirma    FilterDim = "firma"
)

// Filters is the current filter state. Empty string means unset.
type Filters struct {
	Kategori string
	Periyot  string
	Uygunluk string
	Firma    string
}

// Refetcher is invoked after a filter change when server-side filtering is
// in play. Nil keeps filtering fully client-side.
type Refetcher func(filters Filters)

// DerivedView is the page the UI renders.
type DerivedView struct {
	Records       []models.Rapor
	TotalFiltered int
	TotalPages    int
	Page          int
}

const defaultPageSize = 20

// Controller owns the report list state. It is not safe for concurrent use;
// the CLI drives it from a single goroutine.
type Controller struct {
	records   []models.Rapor
	filters   Filters
	search    string
	sortOrder SortOrder
	page      int
	pageSize  int
	refetch   Refetcher
	selection Selection
}

// NewController creates a controller with the given page size (0 falls back
// to 20) and an optional refetch hook.
func NewController(pageSize int, refetch Refetcher) *Controller {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Controller{
		sortOrder: SortNewest,
		page:      1,
		pageSize:  pageSize,
		refetch:   refetch,
		selection: NewSelection(),
	}
}

// SetRecords replaces the loaded records, clamps the page and prunes the
// selection so it never references an unloaded id.
func (c *Controller) SetRecords(records []models.Rapor) {
	c.records = records
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	c.selection.Prune(ids)
	c.clampPage()
}

// Records returns the raw loaded records.
func (c *Controller) Records() []models.Rapor {
	return c.records
}

// Filters returns the current filter state.
func (c *Controller) Filters() Filters {
	return c.filters
}

// Selection exposes the bulk selection.
func (c *Controller) Selection() *Selection {
	return &c.selection
}

// SetFilter updates one filter dimension and resets to the first page. When
// a refetcher is wired, it is asked for fresh records.
func (c *Controller) SetFilter(dim FilterDim, value string) {
	switch dim {
	case FilterKategori:
		c.filters.Kategori = value
	case FilterPeriyot:
		c.filters.Periyot = value
	case FilterUygunluk:
		c.filters.Uygunluk = value
	case FilterFirma:
		c.filters.Firma = value
	default:
		return
	}
	c.page = 1
	if c.refetch != nil {
		c.refetch(c.filters)
	}
}

// ClearFilters resets every dimension and returns to the first page.
func (c *Controller) ClearFilters() {
	c.filters = Filters{}
	c.page = 1
	if c.refetch != nil {
		c.refetch(c.filters)
	}
}

// SetSearchTerm updates the client-side search and resets to the first page.
func (c *Controller) SetSearchTerm(term string) {
	c.search = term
	c.page = 1
}

// SetSortOrder switches between newest-first and oldest-first.
func (c *Controller) SetSortOrder(order SortOrder) {
	if order != SortNewest && order != SortOldest {
		return
	}
	c.sortOrder = order
}

// SetPage clamps the requested page into [1, totalPages].
func (c *Controller) SetPage(page int) {
	c.page = page
	c.clampPage()
}

// Page returns the current page number.
func (c *Controller) Page() int {
	return c.page
}

func (c *Controller) clampPage() {
	total := c.totalPages(len(c.filteredRecords()))
	if c.page > total {
		c.page = total
	}
	if c.page < 1 {
		c.page = 1
	}
}

func (c *Controller) totalPages(filtered int) int {
	if filtered == 0 {
		return 1
	}
	return (filtered + c.pageSize - 1) / c.pageSize
}

// DerivedView projects records through filters, search, sort and the page
// window. It performs no I/O and never mutates controller state.
func (c *Controller) DerivedView() DerivedView {
	filtered := c.filteredRecords()

	sorted := make([]models.Rapor, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c.sortOrder == SortOldest {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[j].CreatedAt.Before(sorted[i].CreatedAt)
	})

	totalPages := c.totalPages(len(sorted))
	page := c.page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * c.pageSize
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + c.pageSize
	if end > len(sorted) {
		end = len(sorted)
	}

	return DerivedView{
		Records:       sorted[start:end],
		TotalFiltered: len(sorted),
		TotalPages:    totalPages,
		Page:          page,
	}
}

// FilteredIDs returns the ids of every record matching the current filters
// and search term, across all pages.
func (c *Controller) FilteredIDs() []string {
	filtered := c.filteredRecords()
	ids := make([]string, len(filtered))
	for i, r := range filtered {
		ids[i] = r.ID
	}
	return ids
}

func (c *Controller) filteredRecords() []models.Rapor {
	out := make([]models.Rapor, 0, len(c.records))
	for _, r := range c.records {
		if !c.matchesFilters(r) {
			continue
		}
		if !matchesSearch(r, c.search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (c *Controller) matchesFilters(r models.Rapor) bool {
	if c.filters.Kategori != "" && r.Kategori != c.filters.Kategori {
		return false
	}
	if c.filters.Periyot != "" && deref(r.Periyot) != c.filters.Periyot {
		return false
	}
	if c.filters.Uygunluk != "" && deref(r.Uygunluk) != c.filters.Uygunluk {
		return false
	}
	if c.filters.Firma != "" && r.Firma != c.filters.Firma {
		return false
	}
	return true
}

// matchesSearch is a case-insensitive containment match over the fields the
// list screen shows.
func matchesSearch(r models.Rapor, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, field := range []string{r.RaporNo, r.EkipmanAdi, r.Firma, deref(r.Lokasyon), deref(r.SeriNo)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
