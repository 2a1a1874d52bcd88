package dto

// CreateProjeRequest is the payload for a new project.
type CreateProjeRequest struct {
	ProjeAdi string `json:"proje_adi" validate:"required"`
	Firma    string `json:"firma" validate:"required"`
	Sehir    string `json:"sehir" validate:"required"`
}

// UpdateProjeRequest carries partial updates; nil fields are left untouched.
type UpdateProjeRequest struct {
	ProjeAdi *string `json:"proje_adi,omitempty"`
	Firma    *string `json:"firma,omitempty"`
	Sehir    *string `json:"sehir,omitempty"`
	Durum    *string `json:"durum,omitempty"`
}

// DashboardStats aggregates the counters shown on the landing page.
type DashboardStats struct {
	ToplamRapor   int `json:"toplam_rapor"`
	AktifRapor    int `json:"aktif_rapor"`
	PasifRapor    int `json:"pasif_rapor"`
	UygunRapor    int `json:"uygun_rapor"`
	UygunsuzRapor int `json:"uygunsuz_rapor"`
	ToplamProje   int `json:"toplam_proje"`
}
