package dto

// CreateRaporRequest is the payload for a new inspection report. The report
// number, city code and project name are filled in server-side.
type CreateRaporRequest struct {
	ProjeID          string  `json:"proje_id" validate:"required"`
	Sehir            string  `json:"sehir" validate:"required"`
	EkipmanAdi       string  `json:"ekipman_adi" validate:"required"`
	Kategori         string  `json:"kategori" validate:"required"`
	AltKategori      *string `json:"alt_kategori,omitempty"`
	Firma            string  `json:"firma" validate:"required"`
	Lokasyon         *string `json:"lokasyon,omitempty"`
	MarkaModel       *string `json:"marka_model,omitempty"`
	SeriNo           *string `json:"seri_no,omitempty"`
	Periyot          *string `json:"periyot,omitempty" validate:"omitempty,oneof='3 Aylık' '6 Aylık' '12 Aylık'"`
	GecerlilikTarihi *string `json:"gecerlilik_tarihi,omitempty"`
	Aciklama         *string `json:"aciklama,omitempty"`
	Uygunluk         *string `json:"uygunluk,omitempty" validate:"omitempty,oneof='Uygun' 'Uygun Değil'"`
}

// UpdateRaporRequest carries partial updates; nil fields are left untouched.
type UpdateRaporRequest struct {
	ProjeID          *string `json:"proje_id,omitempty"`
	Sehir            *string `json:"sehir,omitempty"`
	EkipmanAdi       *string `json:"ekipman_adi,omitempty"`
	Kategori         *string `json:"kategori,omitempty"`
	AltKategori      *string `json:"alt_kategori,omitempty"`
	Firma            *string `json:"firma,omitempty"`
	Lokasyon         *string `json:"lokasyon,omitempty"`
	MarkaModel       *string `json:"marka_model,omitempty"`
	SeriNo           *string `json:"seri_no,omitempty"`
	Periyot          *string `json:"periyot,omitempty"`
	GecerlilikTarihi *string `json:"gecerlilik_tarihi,omitempty"`
	Aciklama         *string `json:"aciklama,omitempty"`
	Uygunluk         *string `json:"uygunluk,omitempty"`
}

// ZipExportRequest selects the reports to bundle into a ZIP archive.
type ZipExportRequest struct {
	RaporIDs []string `json:"rapor_ids"`
}

// DurumResponse reports the status after a toggle.
type DurumResponse struct {
	Message string `json:"message"`
	Durum   string `json:"durum"`
}

// BulkDeleteResponse summarises an all-or-nothing batch delete.
type BulkDeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}
